package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/container"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		app := fx.New(
			fx.NopLogger,
			fx.StopTimeout(cfg.Server.ShutdownTimeout),
			fx.Supply(cfg),
			container.CoreModule,
			container.ServerModule,
		)
		if err := app.Err(); err != nil {
			return err
		}

		app.Run()
		return nil
	},
}
