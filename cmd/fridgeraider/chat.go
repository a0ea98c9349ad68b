package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the cooking assistant; the reply streams to stdout",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ws *workspace.Workspace
		message := strings.Join(args, " ")

		return runCore(cmd.Context(), func(ctx context.Context) error {
			out := cmd.OutOrStdout()
			printed := 0

			chat.Drain(ws.ChatStream(ctx, inbound.ChatCommand{Message: message}),
				func(text string) {
					if len(text) > printed {
						fmt.Fprint(out, text[printed:])
						printed = len(text)
					}
				},
				func(links []chat.Citation) {
					fmt.Fprintln(out)
					if len(links) == 0 {
						return
					}
					fmt.Fprintln(out, "\nSources:")
					for _, l := range links {
						fmt.Fprintf(out, "  %s  %s\n", l.Title, l.URI)
					}
				},
			)
			return nil
		}, &ws)
	},
}
