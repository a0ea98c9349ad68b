// Command fridgeraider runs the FridgeRaider API server and its terminal
// client
package main

func main() {
	Execute()
}
