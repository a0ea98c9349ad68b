package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard <description>",
	Short: "Describe your diet; the extracted tags are saved",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ws *workspace.Workspace
		text := strings.Join(args, " ")

		return runCore(cmd.Context(), func(ctx context.Context) error {
			prefs, err := ws.Onboard(ctx, inbound.OnboardCommand{Text: text})
			if err != nil {
				return err
			}
			if len(prefs.Tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No dietary restrictions recognised.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved:", strings.Join(prefs.Tags, ", "))
			return nil
		}, &ws)
	},
}
