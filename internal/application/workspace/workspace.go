// Package workspace is the view controller of the single user workspace. It
// holds navigation state, the derived recipes and meal plan, and the chat
// transcript.
package workspace

import (
	"context"
	"iter"
	"sync"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/domain/view"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

// Workspace implements inbound.WorkspaceService and the prefetch sink.
// Late AI responses are applied as they arrive, whatever the active tab.
type Workspace struct {
	pantry    inbound.PantryService
	prefs     inbound.PreferenceService
	assistant inbound.AssistantService
	logger    *zap.Logger

	mu          sync.RWMutex
	tab         view.Tab
	syncing     bool
	recipes     []kitchen.Recipe
	plan        []kitchen.MealPlanDay
	planDays    int
	planLoading bool
	planErr     string
	transcript  *chat.Transcript
}

var _ inbound.WorkspaceService = (*Workspace)(nil)

// New creates a workspace on the onboarding tab. Call Init once the stores
// are loaded.
func New(
	pantry inbound.PantryService,
	prefs inbound.PreferenceService,
	assistant inbound.AssistantService,
	defaultPlanDays int,
	logger *zap.Logger,
) *Workspace {
	if defaultPlanDays <= 0 {
		defaultPlanDays = kitchen.DefaultPlanDays
	}
	return &Workspace{
		pantry:     pantry,
		prefs:      prefs,
		assistant:  assistant,
		logger:     logger.Named("workspace"),
		tab:        view.TabOnboarding,
		recipes:    []kitchen.Recipe{},
		plan:       []kitchen.MealPlanDay{},
		planDays:   defaultPlanDays,
		transcript: chat.NewTranscript(),
	}
}

// Init picks the opening tab from the loaded preferences.
func (w *Workspace) Init() {
	tab := view.InitialTab(w.prefs.Get().HasTags())
	w.mu.Lock()
	w.tab = tab
	w.mu.Unlock()
	w.logger.Info("Workspace ready", zap.String("tab", string(tab)))
}

// Snapshot returns the whole view state
func (w *Workspace) Snapshot(ctx context.Context) inbound.WorkspaceSnapshot {
	inventory := w.pantry.List(ctx)
	prefs := w.prefs.Get()

	w.mu.RLock()
	defer w.mu.RUnlock()
	return inbound.WorkspaceSnapshot{
		Tab:         w.tab,
		Syncing:     w.syncing,
		Preferences: prefs,
		Inventory:   inventory,
		Recipes:     cloneRecipes(w.recipes),
		Planner:     w.plannerLocked(len(inventory) == 0),
		Messages:    w.transcript.Len(),
	}
}

// Navigate switches tab. Unknown tabs land on the fridge.
func (w *Workspace) Navigate(ctx context.Context, cmd inbound.NavigateCommand) view.Tab {
	tab, ok := view.ParseTab(cmd.Tab)
	if !ok {
		w.logger.Debug("Unknown tab, falling back", zap.String("requested", cmd.Tab))
	}
	w.mu.Lock()
	w.tab = tab
	w.mu.Unlock()
	return tab
}

// Onboard saves the preferences and opens the fridge
func (w *Workspace) Onboard(ctx context.Context, cmd inbound.OnboardCommand) (*preference.UserPreferences, error) {
	prefs, err := w.prefs.Onboard(ctx, cmd)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.tab = view.TabFridge
	w.mu.Unlock()
	return prefs, nil
}

// Recipes returns the current derived recipes
func (w *Workspace) Recipes() []kitchen.Recipe {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneRecipes(w.recipes)
}

// RegenerateRecipes asks for a fresh batch. With an empty inventory the
// current recipes are kept.
func (w *Workspace) RegenerateRecipes(ctx context.Context) []kitchen.Recipe {
	inv := w.pantry.Snapshot()
	if len(inv) == 0 {
		return w.Recipes()
	}
	recipes := w.assistant.GenerateRecipes(ctx, inv, w.prefs.Get())
	w.SetRecipes(recipes)
	return w.Recipes()
}

// CookRecipe consumes the ingredients of one of the current recipes
func (w *Workspace) CookRecipe(ctx context.Context, recipeID string) ([]inbound.InventoryItemDTO, error) {
	w.mu.RLock()
	recipe, err := kitchen.FindRecipe(w.recipes, recipeID)
	w.mu.RUnlock()
	if err != nil {
		return nil, errors.NewRecipeNotFoundError(recipeID).WithCause(err)
	}
	return w.pantry.Cook(ctx, recipe)
}

// Planner returns the planner state
func (w *Workspace) Planner() inbound.PlannerSnapshot {
	empty := len(w.pantry.Snapshot()) == 0
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.plannerLocked(empty)
}

// GeneratePlan builds a plan of cmd.Days days. On failure the planner
// enters the error state until the next attempt. With an empty inventory
// only the selected length changes; the cached plan is left alone.
func (w *Workspace) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (inbound.PlannerSnapshot, error) {
	if err := kitchen.ValidateDays(cmd.Days); err != nil {
		return w.Planner(), errors.NewValidationError(err.Error()).WithCause(err)
	}

	inv := w.pantry.Snapshot()
	if len(inv) == 0 {
		w.mu.Lock()
		w.planDays = cmd.Days
		snapshot := w.plannerLocked(true)
		w.mu.Unlock()
		return snapshot, nil
	}

	w.mu.Lock()
	w.planDays = cmd.Days
	w.planLoading = true
	w.planErr = ""
	w.mu.Unlock()

	plan, err := w.assistant.PlanMeals(ctx, inv, w.prefs.Get(), cmd.Days)

	w.mu.Lock()
	w.planLoading = false
	if err != nil {
		w.planErr = err.Error()
	} else {
		w.plan = plan
	}
	snapshot := w.plannerLocked(false)
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("Meal plan request failed", zap.Int("days", cmd.Days), zap.Error(err))
		return snapshot, err
	}
	return snapshot, nil
}

// Transcript returns the chat messages
func (w *Workspace) Transcript() []chat.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.transcript.Messages()
}

// Chat sends a message and records both sides in the transcript
func (w *Workspace) Chat(ctx context.Context, cmd inbound.ChatCommand) chat.Reply {
	w.mu.Lock()
	w.transcript.Append(chat.Message{Role: chat.RoleUser, Content: cmd.Message})
	w.mu.Unlock()

	prefs := w.prefs.Get()
	reply := w.assistant.Chat(ctx, cmd.Message, w.pantry.Snapshot(), &prefs)
	if reply.Text == "" {
		reply.Text = chat.EmptyReply
	}

	w.mu.Lock()
	w.transcript.Append(chat.Message{Role: chat.RoleAssistant, Content: reply.Text, Citations: reply.Citations})
	w.mu.Unlock()
	return reply
}

// ChatStream sends a message and streams the reply. The transcript holds a
// streaming placeholder that is filled as events arrive.
func (w *Workspace) ChatStream(ctx context.Context, cmd inbound.ChatCommand) iter.Seq[chat.StreamEvent] {
	w.mu.Lock()
	w.transcript.Append(chat.Message{Role: chat.RoleUser, Content: cmd.Message})
	idx := w.transcript.Append(chat.Message{Role: chat.RoleAssistant, Streaming: true})
	w.mu.Unlock()

	prefs := w.prefs.Get()
	stream := w.assistant.ChatStream(ctx, cmd.Message, w.pantry.Snapshot(), &prefs)

	return func(yield func(chat.StreamEvent) bool) {
		defer w.finishStreaming(idx)

		for ev := range stream {
			w.mu.Lock()
			w.transcript.Update(idx, func(m *chat.Message) {
				switch ev.Kind {
				case chat.EventPartial:
					m.Content = ev.Text
				case chat.EventDone:
					m.Citations = ev.Citations
				}
			})
			w.mu.Unlock()

			if !yield(ev) {
				return
			}
		}
	}
}

func (w *Workspace) finishStreaming(idx int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transcript.Update(idx, func(m *chat.Message) {
		m.Streaming = false
		if m.Content == "" {
			m.Content = chat.EmptyReply
		}
	})
}

// SetRecipes replaces the derived recipes
func (w *Workspace) SetRecipes(recipes []kitchen.Recipe) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recipes = cloneRecipes(recipes)
}

// SetMealPlan replaces the derived meal plan. A non-empty plan clears a
// previous planner error.
func (w *Workspace) SetMealPlan(plan []kitchen.MealPlanDay) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plan = append([]kitchen.MealPlanDay{}, plan...)
	if len(plan) > 0 {
		w.planErr = ""
	}
}

// SetSyncing flags a running prefetch
func (w *Workspace) SetSyncing(syncing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncing = syncing
}

// PlanDays returns the selected plan length
func (w *Workspace) PlanDays() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.planDays
}

func (w *Workspace) plannerLocked(inventoryEmpty bool) inbound.PlannerSnapshot {
	status := view.PlannerIdle
	switch {
	case inventoryEmpty:
		status = view.PlannerEmpty
	case w.planErr != "":
		status = view.PlannerError
	case w.planLoading:
		status = view.PlannerLoading
	case len(w.plan) > 0:
		status = view.PlannerReady
	case w.syncing:
		status = view.PlannerLoading
	}
	return inbound.PlannerSnapshot{
		Status:     status,
		Days:       w.planDays,
		DayOptions: append([]int(nil), kitchen.PlanDayOptions...),
		Plan:       append([]kitchen.MealPlanDay{}, w.plan...),
		Error:      w.planErr,
	}
}

func cloneRecipes(in []kitchen.Recipe) []kitchen.Recipe {
	return append([]kitchen.Recipe{}, in...)
}
