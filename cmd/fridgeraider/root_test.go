package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "chat", "inventory", "onboard"} {
		assert.True(t, names[want], want)
	}

	sub, _, err := rootCmd.Find([]string{"inventory", "add"})
	require.NoError(t, err)
	assert.Equal(t, "add", sub.Name())
}

func TestInventoryAdd_RejectsInvalidUnitBeforeStarting(t *testing.T) {
	rootCmd.SetArgs([]string{"inventory", "add", "Milk", "--unit", "cups"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "oneof")
}
