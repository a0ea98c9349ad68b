package container

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	"github.com/fridgeraider/fridgeraider/internal/application/prefetch"
	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/domain/view"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/test/testutils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.AI.Provider = "ollama"
	cfg.Storage.Driver = "memory"
	cfg.Cache.Driver = "memory"
	cfg.Kafka.Enabled = false
	cfg.Prefetch.CookDelay = 0
	return cfg
}

func testApp(t *testing.T, cfg *config.Config, model outbound.LanguageModel, opts ...fx.Option) *fxtest.App {
	base := []fx.Option{
		fx.Supply(cfg),
		CoreModule,
		fx.Replace(zaptest.NewLogger(t)),
		fx.Decorate(func(outbound.LanguageModel) outbound.LanguageModel { return model }),
		fx.NopLogger,
	}
	return fxtest.New(t, append(base, opts...)...)
}

func TestCoreModule_StartsOnOnboarding(t *testing.T) {
	var ws *workspace.Workspace
	app := testApp(t, testConfig(t), testutils.NewScriptedModel(), fx.Populate(&ws))

	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, view.TabOnboarding, ws.Snapshot(context.Background()).Tab)
}

func TestCoreModule_InventoryEventsReachSubscribers(t *testing.T) {
	model := testutils.NewScriptedModel()
	model.On("validate_food", testutils.ScriptedReply{Text: `{"isValid":true,"category":"Dairy"}`})

	var (
		pantry      *pantrysvc.Service
		metrics     *monitoring.MetricsCollector
		coordinator *prefetch.Coordinator
	)
	app := testApp(t, testConfig(t), model, fx.Populate(&pantry, &metrics, &coordinator))
	app.RequireStart()
	defer app.RequireStop()

	_, err := pantry.AddItem(context.Background(), inbound.AddItemCommand{
		Name: "Milk", Quantity: 1, Unit: "l", ExpiryDate: "2030-01-01",
	})
	require.NoError(t, err)

	expected := `
# HELP fridgeraider_inventory_items Number of items currently in the fridge
# TYPE fridgeraider_inventory_items gauge
fridgeraider_inventory_items 1
`
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "fridgeraider_inventory_items"))
	assert.Equal(t, prefetch.StateIdle, coordinator.State(), "coordinator is not running without the server module")
}

func TestCoreModule_UnknownStorageDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "floppy"

	app := fx.New(
		fx.Supply(cfg),
		CoreModule,
		fx.Replace(zaptest.NewLogger(t)),
		fx.NopLogger,
		fx.Invoke(func(outbound.DocumentStore) {}),
	)

	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "floppy")
}

func TestSyncOutcome(t *testing.T) {
	assert.Equal(t, "complete", syncOutcome(prefetch.Report{Recipes: 3, PlanDays: 3}))
	assert.Equal(t, "partial", syncOutcome(prefetch.Report{Recipes: 3}))
	assert.Equal(t, "empty", syncOutcome(prefetch.Report{}))
}
