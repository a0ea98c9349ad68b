package prefetch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeInventory struct {
	mu    sync.Mutex
	items pantry.Inventory
}

func (f *fakeInventory) Snapshot() pantry.Inventory {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items.Clone()
}

func (f *fakeInventory) set(items pantry.Inventory) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

type fakePrefs struct{}

func (fakePrefs) Get() preference.UserPreferences {
	return preference.New([]string{"Vegan"}, "")
}

type fakeGenerator struct {
	mu           sync.Mutex
	recipes      []kitchen.Recipe
	plan         []kitchen.MealPlanDay
	gate         chan struct{}
	started      chan string
	panicRecipes bool
	planDays     []int
}

func (g *fakeGenerator) wait(task string) {
	if g.started != nil {
		g.started <- task
	}
	if g.gate != nil {
		<-g.gate
	}
}

func (g *fakeGenerator) GenerateRecipes(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences) []kitchen.Recipe {
	g.wait("recipes")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.panicRecipes {
		panic("model exploded")
	}
	return g.recipes
}

func (g *fakeGenerator) GenerateMealPlan(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) []kitchen.MealPlanDay {
	g.wait("plan")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.planDays = append(g.planDays, days)
	return g.plan
}

type fakeSink struct {
	mu       sync.Mutex
	recipes  []kitchen.Recipe
	plan     []kitchen.MealPlanDay
	syncing  []bool
	planDays int
}

func (s *fakeSink) SetRecipes(r []kitchen.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = r
}

func (s *fakeSink) SetMealPlan(p []kitchen.MealPlanDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

func (s *fakeSink) SetSyncing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = append(s.syncing, v)
}

func (s *fakeSink) PlanDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planDays
}

func (s *fakeSink) snapshot() ([]kitchen.Recipe, []kitchen.MealPlanDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipes, s.plan
}

func items(names ...string) pantry.Inventory {
	inv := make(pantry.Inventory, 0, len(names))
	for _, n := range names {
		inv = append(inv, pantry.InventoryItem{ID: n, Name: n, Category: "Other", Quantity: 1, Unit: pantry.UnitPieces, ExpiryDate: "2030-01-01"})
	}
	return inv
}

func startCoordinator(t *testing.T, inv *fakeInventory, gen *fakeGenerator, sink *fakeSink) *Coordinator {
	t.Helper()
	c := NewCoordinator(inv, fakePrefs{}, gen, sink, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func waitIdleAfter(t *testing.T, c *Coordinator, syncs int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Syncs() >= syncs && c.State() == StateIdle
	}, waitFor, tick)
}

func TestCoordinator_ShouldRunBothGeneratorsConcurrently(t *testing.T) {
	gen := &fakeGenerator{
		gate:    make(chan struct{}),
		started: make(chan string, 2),
		recipes: []kitchen.Recipe{{ID: "r1", Name: "Soup"}},
		plan:    []kitchen.MealPlanDay{{Day: 1}},
	}
	sink := &fakeSink{planDays: 5}
	c := startCoordinator(t, &fakeInventory{items: items("Tomato")}, gen, sink)

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case task := <-gen.started:
			seen[task] = true
		case <-time.After(waitFor):
			t.Fatal("both generators should be in flight at once")
		}
	}
	assert.Equal(t, map[string]bool{"recipes": true, "plan": true}, seen)
	assert.Equal(t, StateSyncing, c.State())

	close(gen.gate)
	waitIdleAfter(t, c, 1)

	recipes, plan := sink.snapshot()
	assert.Len(t, recipes, 1)
	assert.Len(t, plan, 1)
	assert.Equal(t, []int{5}, gen.planDays)
	assert.Equal(t, []bool{true, false}, sink.syncing)
}

func TestCoordinator_EqualInventory_ShouldNotResync(t *testing.T) {
	inv := &fakeInventory{items: items("Tomato", "Rice")}
	gen := &fakeGenerator{recipes: []kitchen.Recipe{{ID: "r1"}}}
	c := startCoordinator(t, inv, gen, &fakeSink{planDays: 3})
	waitIdleAfter(t, c, 1)

	inv.set(items("Tomato", "Rice"))
	c.Notify()
	c.Notify()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, c.Syncs())
}

func TestCoordinator_MutationDuringSync_ShouldTriggerFollowUp(t *testing.T) {
	inv := &fakeInventory{items: items("Tomato")}
	gen := &fakeGenerator{gate: make(chan struct{}), started: make(chan string, 8)}
	c := startCoordinator(t, inv, gen, &fakeSink{planDays: 3})

	<-gen.started
	<-gen.started
	inv.set(items("Tomato", "Rice"))
	c.Notify()
	close(gen.gate)

	waitIdleAfter(t, c, 2)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, c.Syncs())
}

func TestCoordinator_EmptyInventory_ShouldNotSync(t *testing.T) {
	inv := &fakeInventory{}
	c := startCoordinator(t, inv, &fakeGenerator{}, &fakeSink{planDays: 3})

	c.Notify()
	time.Sleep(30 * time.Millisecond)

	assert.Zero(t, c.Syncs())
	assert.Equal(t, StateIdle, c.State())
}

func TestCoordinator_EmptyResults_ShouldNotClobber(t *testing.T) {
	inv := &fakeInventory{items: items("Tomato")}
	sink := &fakeSink{
		planDays: 3,
		recipes:  []kitchen.Recipe{{ID: "old"}},
		plan:     []kitchen.MealPlanDay{{Day: 1}},
	}
	c := startCoordinator(t, inv, &fakeGenerator{}, sink)

	waitIdleAfter(t, c, 1)

	recipes, plan := sink.snapshot()
	assert.Equal(t, "old", recipes[0].ID)
	assert.Len(t, plan, 1)
}

func TestCoordinator_OneTaskPanics_ShouldStillApplyOther(t *testing.T) {
	inv := &fakeInventory{items: items("Tomato")}
	gen := &fakeGenerator{panicRecipes: true, plan: []kitchen.MealPlanDay{{Day: 1}, {Day: 2}}}
	sink := &fakeSink{planDays: 2}
	c := startCoordinator(t, inv, gen, sink)

	waitIdleAfter(t, c, 1)

	recipes, plan := sink.snapshot()
	assert.Empty(t, recipes)
	assert.Len(t, plan, 2)
}

func TestCoordinator_SyncObserver(t *testing.T) {
	inv := &fakeInventory{items: items("Tomato")}
	reports := make(chan Report, 1)
	c := NewCoordinator(inv, fakePrefs{}, &fakeGenerator{recipes: []kitchen.Recipe{{ID: "r"}}}, &fakeSink{planDays: 3},
		zaptest.NewLogger(t), WithSyncObserver(func(r Report) { reports <- r }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case r := <-reports:
		assert.Equal(t, 1, r.Items)
		assert.Equal(t, 1, r.Recipes)
		assert.Equal(t, inv.Snapshot().Fingerprint(), r.Fingerprint)
	case <-time.After(waitFor):
		t.Fatal("observer was not called")
	}
}
