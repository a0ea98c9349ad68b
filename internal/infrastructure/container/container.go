// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fridgeraider/fridgeraider/internal/application/assistant"
	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	preferencesvc "github.com/fridgeraider/fridgeraider/internal/application/preference"
	"github.com/fridgeraider/fridgeraider/internal/application/prefetch"
	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/ai"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/apiserver"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/handlers"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/messaging"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/healthcheck"
	"github.com/fridgeraider/fridgeraider/pkg/logger"
)

// connectTimeout bounds connecting to external stores and providers.
const connectTimeout = 15 * time.Second

// CoreModule provides everything except the HTTP surface. Stores are loaded
// on start.
var CoreModule = fx.Options(
	LoggerModule,
	MonitoringModule,
	StorageModule,
	CacheModule,
	EventModule,
	AIModule,
	ServiceModule,
	fx.Invoke(RegisterStateHooks),
)

// ServerModule adds the API server and the prefetch loop
var ServerModule = fx.Options(
	HTTPModule,
	fx.Invoke(RegisterPrefetchHooks, RegisterServerHooks),
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		var outputs []string
		if cfg.App.LogOutput != "" {
			outputs = []string{cfg.App.LogOutput}
		}
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			OutputPaths: outputs,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.Monitoring.ServiceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			Endpoint:       cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(tp.Shutdown))
		return tp, nil
	},
)

// EventModule provides the message bus. Events always go to in-process
// subscribers and are mirrored to Kafka when enabled.
var EventModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (outbound.MessageBus, error) {
		var bus outbound.MessageBus = messaging.NewEventBus(metrics, log)

		if cfg.Kafka.Enabled {
			producer, err := messaging.NewKafkaProducer(cfg.Kafka)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to kafka: %w", err)
			}
			log.Info("Mirroring events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
			bus = messaging.NewKafkaMirror(bus, producer, cfg.Kafka.TopicPrefix, log)
		}

		lc.Append(fx.StopHook(bus.Close))
		return bus, nil
	},
)

// AIModule provides the language model, throttled and instrumented
var AIModule = fx.Provide(
	func(
		cfg *config.Config,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
		log *zap.Logger,
	) (outbound.LanguageModel, error) {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		model, err := ai.NewLanguageModel(ctx, cfg.AI, log)
		if err != nil {
			return nil, err
		}

		var limiter *rate.Limiter
		if cfg.RateLimit.AIRequestsPerSecond > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.AIRequestsPerSecond), cfg.RateLimit.AIBurst)
		}

		log.Info("Language model ready",
			zap.String("provider", model.Name()),
			zap.String("fast_model", cfg.AI.FastModel),
			zap.String("capable_model", cfg.AI.CapableModel),
		)
		return ai.NewInstrumentedModel(model, limiter, metrics, tracing.Tracer(), log), nil
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(model outbound.LanguageModel, cache outbound.CacheRepository, cfg *config.Config, log *zap.Logger) *assistant.Service {
		return assistant.NewService(model, log, assistant.WithVerdictCache(cache, cfg.Cache.VerdictTTL))
	},
	func(a *assistant.Service, store outbound.DocumentStore, bus outbound.MessageBus, cfg *config.Config, log *zap.Logger) *pantrysvc.Service {
		return pantrysvc.NewService(a, store, bus, cfg.Prefetch.CookDelay, log)
	},
	func(a *assistant.Service, store outbound.DocumentStore, bus outbound.MessageBus, log *zap.Logger) *preferencesvc.Service {
		return preferencesvc.NewService(a, store, bus, log)
	},
	func(p *pantrysvc.Service, prefs *preferencesvc.Service, a *assistant.Service, cfg *config.Config, log *zap.Logger) *workspace.Workspace {
		return workspace.New(p, prefs, a, cfg.Prefetch.DefaultPlanDays, log)
	},
	func(
		p *pantrysvc.Service,
		prefs *preferencesvc.Service,
		a *assistant.Service,
		ws *workspace.Workspace,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) *prefetch.Coordinator {
		return prefetch.NewCoordinator(p, prefs, a, ws, log,
			prefetch.WithSyncObserver(func(r prefetch.Report) {
				metrics.RecordPrefetchSync(syncOutcome(r), r.Duration)
			}),
		)
	},
)

// HTTPModule provides the API handlers and server
var HTTPModule = fx.Provide(
	func(ws *workspace.Workspace, p *pantrysvc.Service, prefs *preferencesvc.Service, cfg *config.Config, log *zap.Logger) *handlers.APIHandlers {
		return handlers.NewAPIHandlers(ws, p, prefs, cfg, log)
	},
	func(cfg *config.Config, model outbound.LanguageModel, store outbound.DocumentStore, log *zap.Logger) *healthcheck.HealthCheck {
		health := healthcheck.New(cfg.App.Version, log.Named("health"))
		health.Register("language_model", healthcheck.NewLanguageModelChecker(model))
		health.Register("storage", healthcheck.NewDocumentStoreChecker(store))
		return health
	},
	apiserver.NewAPIServer,
)

func syncOutcome(r prefetch.Report) string {
	switch {
	case r.Recipes > 0 && r.PlanDays > 0:
		return "complete"
	case r.Recipes > 0 || r.PlanDays > 0:
		return "partial"
	default:
		return "empty"
	}
}
