package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	preferencesvc "github.com/fridgeraider/fridgeraider/internal/application/preference"
	"github.com/fridgeraider/fridgeraider/internal/application/prefetch"
	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/apiserver"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// StateHookParams groups what RegisterStateHooks needs
type StateHookParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Config      *config.Config
	Logger      *zap.Logger
	Bus         outbound.MessageBus
	Pantry      *pantrysvc.Service
	Preferences *preferencesvc.Service
	Workspace   *workspace.Workspace
	Coordinator *prefetch.Coordinator
	Metrics     *monitoring.MetricsCollector
}

// RegisterStateHooks restores the persisted state and wires inventory
// events to their subscribers
func RegisterStateHooks(p StateHookParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("Starting FridgeRaider",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
			)

			if err := p.Bus.Subscribe(ctx, pantry.InventoryTopic, p.Coordinator.HandleMessage); err != nil {
				return fmt.Errorf("failed to subscribe prefetch: %w", err)
			}
			if err := p.Bus.Subscribe(ctx, pantry.InventoryTopic, inventoryMetrics(p.Pantry, p.Metrics)); err != nil {
				return fmt.Errorf("failed to subscribe metrics: %w", err)
			}

			if err := p.Preferences.Load(ctx); err != nil {
				return err
			}
			if err := p.Pantry.Load(ctx); err != nil {
				return err
			}
			p.Workspace.Init()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Shutting down FridgeRaider")
			_ = p.Logger.Sync()
			return nil
		},
	})
}

func inventoryMetrics(p *pantrysvc.Service, metrics *monitoring.MetricsCollector) outbound.MessageHandler {
	cooked := pantry.RecipeCookedEvent{}.EventName()
	return func(ctx context.Context, msg outbound.Message) error {
		if msg.Type == cooked {
			metrics.RecordRecipeCooked()
		}
		metrics.SetInventoryItems(len(p.Snapshot()))
		return nil
	}
}

// RegisterPrefetchHooks runs the prefetch coordinator for the lifetime of
// the application
func RegisterPrefetchHooks(lc fx.Lifecycle, cfg *config.Config, coordinator *prefetch.Coordinator, log *zap.Logger) {
	if !cfg.Prefetch.Enabled {
		log.Info("Prefetch is disabled")
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				coordinator.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

// RegisterServerHooks starts and stops the API server
func RegisterServerHooks(lc fx.Lifecycle, shutdowner fx.Shutdowner, server *apiserver.APIServer, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
