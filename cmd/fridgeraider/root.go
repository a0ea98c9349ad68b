package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/container"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fridgeraider",
	Short: "Food inventory, recipes and meal plans backed by an AI assistant",
	Long: `fridgeraider tracks what is in your fridge, suggests recipes that use it,
plans meals for the coming days and answers cooking questions.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr at info level")

	rootCmd.AddCommand(serveCmd, chatCmd, inventoryCmd, onboardCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCore starts the application without the HTTP server, fills targets
// via fx.Populate, runs fn and stops the application again.
func runCore(ctx context.Context, fn func(ctx context.Context) error, targets ...interface{}) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	cfg.App.LogFormat = "console"
	cfg.App.LogOutput = "stderr"
	if !verbose {
		cfg.App.LogLevel = "warn"
	}

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		container.CoreModule,
		fx.Populate(targets...),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
