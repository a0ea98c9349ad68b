// Package prefetch keeps derived recipes and meal plans in step with the
// inventory. One goroutine owns the state machine; inventory events only
// wake it up.
package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// State of the coordinator
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
)

// InventorySource provides inventory snapshots
type InventorySource interface {
	Snapshot() pantry.Inventory
}

// PreferenceSource provides the current preferences
type PreferenceSource interface {
	Get() preference.UserPreferences
}

// Generator produces derived state. Failures are reported as empty results.
type Generator interface {
	GenerateRecipes(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences) []kitchen.Recipe
	GenerateMealPlan(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) []kitchen.MealPlanDay
}

// Sink receives derived state
type Sink interface {
	SetRecipes(recipes []kitchen.Recipe)
	SetMealPlan(plan []kitchen.MealPlanDay)
	SetSyncing(syncing bool)
	PlanDays() int
}

// Report describes a finished sync
type Report struct {
	Fingerprint string
	Items       int
	Recipes     int
	PlanDays    int
	Duration    time.Duration
}

// Coordinator runs the recipe generator and the meal planner whenever the
// inventory differs from the one seen at the start of the previous sync.
type Coordinator struct {
	inventory InventorySource
	prefs     PreferenceSource
	generator Generator
	sink      Sink
	onSync    func(Report)
	logger    *zap.Logger

	wake chan struct{}

	mu              sync.Mutex
	state           State
	lastFingerprint string
	syncs           int
}

// Option configures the coordinator
type Option func(*Coordinator)

// WithSyncObserver registers a callback run after every sync.
func WithSyncObserver(fn func(Report)) Option {
	return func(c *Coordinator) {
		c.onSync = fn
	}
}

// NewCoordinator creates an idle coordinator. Nothing happens until Run.
func NewCoordinator(inventory InventorySource, prefs PreferenceSource, generator Generator, sink Sink, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		inventory: inventory,
		prefs:     prefs,
		generator: generator,
		sink:      sink,
		logger:    logger.Named("prefetch"),
		wake:      make(chan struct{}, 1),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify asks the coordinator to re-check the inventory. Calls coalesce.
func (c *Coordinator) Notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// HandleMessage is a MessageHandler for inventory topic messages.
func (c *Coordinator) HandleMessage(ctx context.Context, msg outbound.Message) error {
	c.logger.Debug("Inventory changed", zap.String("event", msg.Type))
	c.Notify()
	return nil
}

// Run owns the state machine until ctx is done. It checks the inventory
// once on start.
func (c *Coordinator) Run(ctx context.Context) {
	c.logger.Info("Prefetch coordinator started")
	defer c.logger.Info("Prefetch coordinator stopped")

	c.Notify()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
			c.evaluate(ctx)
		}
	}
}

// State returns the current state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Syncs returns how many syncs have started
func (c *Coordinator) Syncs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncs
}

// evaluate syncs until the inventory matches the last fingerprint. A
// mutation that lands during a sync is picked up by the next iteration.
func (c *Coordinator) evaluate(ctx context.Context) {
	for ctx.Err() == nil {
		inv := c.inventory.Snapshot()
		fingerprint := inv.Fingerprint()

		c.mu.Lock()
		unchanged := fingerprint == c.lastFingerprint
		c.mu.Unlock()

		if unchanged || len(inv) == 0 {
			return
		}
		c.sync(ctx, inv, fingerprint)
	}
}

func (c *Coordinator) sync(ctx context.Context, inv pantry.Inventory, fingerprint string) {
	start := time.Now()

	c.mu.Lock()
	c.lastFingerprint = fingerprint
	c.state = StateSyncing
	c.syncs++
	c.mu.Unlock()
	c.sink.SetSyncing(true)

	prefs := c.prefs.Get()
	days := c.sink.PlanDays()

	c.logger.Info("Prefetching recipes and meal plan",
		zap.Int("items", len(inv)),
		zap.Int("days", days),
	)

	var (
		wg      sync.WaitGroup
		recipes []kitchen.Recipe
		plan    []kitchen.MealPlanDay
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer c.recoverTask("recipes")
		recipes = c.generator.GenerateRecipes(ctx, inv, prefs)
	}()
	go func() {
		defer wg.Done()
		defer c.recoverTask("meal plan")
		plan = c.generator.GenerateMealPlan(ctx, inv, prefs, days)
	}()
	wg.Wait()

	if len(recipes) > 0 {
		c.sink.SetRecipes(recipes)
	}
	if len(plan) > 0 {
		c.sink.SetMealPlan(plan)
	}

	c.sink.SetSyncing(false)
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	report := Report{
		Fingerprint: fingerprint,
		Items:       len(inv),
		Recipes:     len(recipes),
		PlanDays:    len(plan),
		Duration:    time.Since(start),
	}
	c.logger.Info("Prefetch finished",
		zap.Int("recipes", report.Recipes),
		zap.Int("plan_days", report.PlanDays),
		zap.Duration("duration", report.Duration),
	)
	if c.onSync != nil {
		c.onSync(report)
	}
}

func (c *Coordinator) recoverTask(task string) {
	if r := recover(); r != nil {
		c.logger.Error("Prefetch task panicked", zap.String("task", task), zap.String("panic", fmt.Sprint(r)))
	}
}
