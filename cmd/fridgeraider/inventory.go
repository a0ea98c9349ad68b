package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/handlers"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv"},
	Short:   "Manage the fridge inventory",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items with their expiry status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var svc *pantrysvc.Service
		return runCore(cmd.Context(), func(ctx context.Context) error {
			items := svc.List(ctx)
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The fridge is empty.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tCATEGORY\tEXPIRES\tSTATUS")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%g %s\t%s\t%s\t%s\n",
					it.ID, it.Name, it.Quantity, it.Unit, it.Category, it.ExpiryDate, it.ExpiryStatus)
			}
			return tw.Flush()
		}, &svc)
	},
}

var addFlags struct {
	quantity float64
	unit     string
	expiry   string
}

var inventoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Validate a food item and add it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := inbound.AddItemCommand{
			Name:       args[0],
			Quantity:   addFlags.quantity,
			Unit:       addFlags.unit,
			ExpiryDate: addFlags.expiry,
		}
		if err := handlers.NewValidator().Struct(addCmd); err != nil {
			return err
		}

		var svc *pantrysvc.Service
		return runCore(cmd.Context(), func(ctx context.Context) error {
			item, err := svc.AddItem(ctx, addCmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s), id %s\n", item.Name, item.Category, item.ID)
			return nil
		}, &svc)
	},
}

var inventoryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var svc *pantrysvc.Service
		return runCore(cmd.Context(), func(ctx context.Context) error {
			if err := svc.DeleteItem(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed", args[0])
			return nil
		}, &svc)
	},
}

func init() {
	f := inventoryAddCmd.Flags()
	f.Float64VarP(&addFlags.quantity, "quantity", "q", 1, "amount")
	f.StringVarP(&addFlags.unit, "unit", "u", string(pantry.UnitPieces), "unit (g, kg, ml, l, pcs)")
	f.StringVarP(&addFlags.expiry, "expires", "e", time.Now().AddDate(0, 0, 7).Format(pantry.DateLayout), "expiry date (YYYY-MM-DD)")

	inventoryCmd.AddCommand(inventoryListCmd, inventoryAddCmd, inventoryRemoveCmd)
}
