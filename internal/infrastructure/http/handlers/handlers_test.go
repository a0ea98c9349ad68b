package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/fridgeraider/fridgeraider/internal/application/assistant"
	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	preferencesvc "github.com/fridgeraider/fridgeraider/internal/application/preference"
	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/domain/view"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/handlers"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/memory"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/test/testutils"
)

type HandlersTestSuite struct {
	suite.Suite
	model     *testutils.ScriptedModel
	workspace *workspace.Workspace
	router    chi.Router
	cfg       *config.Config
	assert    *testutils.HTTPAssertions
	recipes   *testutils.RecipeFactory
}

func (s *HandlersTestSuite) SetupTest() {
	ctx := context.Background()
	logger := zaptest.NewLogger(s.T())

	s.model = testutils.NewScriptedModel()
	s.recipes = testutils.NewRecipeFactory(11)
	s.assert = testutils.NewHTTPAssertions(s.T())
	s.cfg = &config.Config{Features: config.FeatureFlags{EnablePlanExport: true, EnableChatStream: true}}

	store := memory.NewDocumentStore()
	ai := assistant.NewService(s.model, logger)
	pantry := pantrysvc.NewService(ai, store, nil, 0, logger)
	prefs := preferencesvc.NewService(ai, store, nil, logger)
	require.NoError(s.T(), pantry.Load(ctx))
	require.NoError(s.T(), prefs.Load(ctx))

	s.workspace = workspace.New(pantry, prefs, ai, kitchen.DefaultPlanDays, logger)
	s.workspace.Init()

	h := handlers.NewAPIHandlers(s.workspace, pantry, prefs, s.cfg, logger)
	s.router = chi.NewRouter()
	s.router.Route("/api/v1", h.Mount)
	s.router.Get("/api/v1/chat/stream", h.ChatStream)
}

func (s *HandlersTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) addTomato() inbound.InventoryItemDTO {
	s.model.On("validate_food", testutils.ScriptedReply{Text: `{"isValid":true,"category":"Vegetable"}`})
	var item inbound.InventoryItemDTO
	rec := s.do(http.MethodPost, "/api/v1/inventory", `{"name":"Tomato","quantity":1,"unit":"kg","expiryDate":"2030-01-01"}`)
	s.assert.Success(rec, http.StatusCreated, &item)
	return item
}

func (s *HandlersTestSuite) TestWorkspace() {
	s.Run("Snapshot_ShouldStartOnOnboarding", func() {
		s.SetupTest()
		var snap inbound.WorkspaceSnapshot
		s.assert.Success(s.do(http.MethodGet, "/api/v1/workspace", ""), http.StatusOK, &snap)
		assert.Equal(s.T(), view.TabOnboarding, snap.Tab)
		assert.Equal(s.T(), 1, snap.Messages)
	})

	s.Run("Navigate_UnknownTab_ShouldFallBackToFridge", func() {
		s.SetupTest()
		var out struct {
			Tab view.Tab `json:"tab"`
		}
		s.assert.Success(s.do(http.MethodPut, "/api/v1/workspace/tab", `{"tab":"settings"}`), http.StatusOK, &out)
		assert.Equal(s.T(), view.TabFridge, out.Tab)
	})

	s.Run("Navigate_MissingTab_ShouldFailValidation", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodPut, "/api/v1/workspace/tab", `{}`), http.StatusBadRequest, "VALIDATION_FAILED")
	})

	s.Run("Onboard_ShouldSaveTags", func() {
		s.SetupTest()
		s.model.On("extract_preferences", testutils.ScriptedReply{Text: `["Vegan","Gluten-Free"]`})

		var prefs preference.UserPreferences
		s.assert.Success(s.do(http.MethodPost, "/api/v1/onboarding", `{"text":"plants only, no wheat"}`), http.StatusOK, &prefs)
		assert.Equal(s.T(), []string{"Vegan", "Gluten-Free"}, prefs.Tags)

		s.assert.Success(s.do(http.MethodGet, "/api/v1/preferences", ""), http.StatusOK, &prefs)
		assert.Equal(s.T(), []string{"Vegan", "Gluten-Free"}, prefs.Tags)
	})

	s.Run("MalformedJSON_ShouldBeBadRequest", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodPost, "/api/v1/onboarding", `{"text":`), http.StatusBadRequest, "BAD_REQUEST")
	})
}

func (s *HandlersTestSuite) TestInventory() {
	s.Run("Add_ShouldReturnClassifiedItem", func() {
		s.SetupTest()
		item := s.addTomato()

		assert.Equal(s.T(), "Tomato", item.Name)
		assert.Equal(s.T(), "Vegetable", item.Category)
		assert.NotEmpty(s.T(), item.ID)

		var items []inbound.InventoryItemDTO
		s.assert.Success(s.do(http.MethodGet, "/api/v1/inventory", ""), http.StatusOK, &items)
		assert.Len(s.T(), items, 1)
	})

	s.Run("Add_RejectedFood_ShouldBeUnprocessable", func() {
		s.SetupTest()
		s.model.On("validate_food", testutils.ScriptedReply{Text: `{"isValid":false,"category":""}`})

		rec := s.do(http.MethodPost, "/api/v1/inventory", `{"name":"Brick","quantity":1,"unit":"pcs","expiryDate":"2030-01-01"}`)

		s.assert.ErrorCode(rec, http.StatusUnprocessableEntity, "FOOD_REJECTED")
	})

	s.Run("Add_InvalidFields_ShouldFailValidation", func() {
		s.SetupTest()
		rec := s.do(http.MethodPost, "/api/v1/inventory", `{"name":"","quantity":0,"unit":"cups","expiryDate":"tomorrow"}`)

		s.assert.ErrorCode(rec, http.StatusBadRequest, "VALIDATION_FAILED")
		assert.Contains(s.T(), rec.Body.String(), "expiryDate")
		assert.Zero(s.T(), s.model.Calls("validate_food"))
	})

	s.Run("Delete_ShouldRemoveItem", func() {
		s.SetupTest()
		item := s.addTomato()

		s.assert.Success(s.do(http.MethodDelete, "/api/v1/inventory/"+item.ID, ""), http.StatusOK, nil)

		var items []inbound.InventoryItemDTO
		s.assert.Success(s.do(http.MethodGet, "/api/v1/inventory", ""), http.StatusOK, &items)
		assert.Empty(s.T(), items)
	})

	s.Run("Delete_UnknownItem_ShouldBeNotFound", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodDelete, "/api/v1/inventory/missing", ""), http.StatusNotFound, "INVENTORY_ITEM_NOT_FOUND")
	})
}

func (s *HandlersTestSuite) TestRecipes() {
	s.Run("Generate_ShouldReturnRecipes", func() {
		s.SetupTest()
		s.addTomato()
		s.model.On("generate_recipes", testutils.ScriptedReply{
			Text: testutils.MustJSON([]kitchen.Recipe{s.recipes.Recipe(testutils.NewItem("Tomato", 1, "kg"))}),
		})

		var recipes []kitchen.Recipe
		s.assert.Success(s.do(http.MethodPost, "/api/v1/recipes/generate", ""), http.StatusOK, &recipes)
		require.Len(s.T(), recipes, 1)

		var listed []kitchen.Recipe
		s.assert.Success(s.do(http.MethodGet, "/api/v1/recipes", ""), http.StatusOK, &listed)
		assert.Equal(s.T(), recipes[0].ID, listed[0].ID)
	})

	s.Run("Cook_ShouldConsumeIngredients", func() {
		s.SetupTest()
		s.addTomato()
		s.workspace.SetRecipes([]kitchen.Recipe{{ID: "r1", Name: "Salsa", Ingredients: []kitchen.Ingredient{{Name: "tomato", Amount: 250, Unit: "g"}}}})

		var items []inbound.InventoryItemDTO
		s.assert.Success(s.do(http.MethodPost, "/api/v1/recipes/r1/cook", ""), http.StatusOK, &items)
		require.Len(s.T(), items, 1)
		assert.Equal(s.T(), 0.75, items[0].Quantity)
	})

	s.Run("Cook_UnknownRecipe_ShouldBeNotFound", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodPost, "/api/v1/recipes/nope/cook", ""), http.StatusNotFound, "RECIPE_NOT_FOUND")
	})
}

func (s *HandlersTestSuite) TestPlanner() {
	s.Run("Generate_ShouldReturnReadyPlanner", func() {
		s.SetupTest()
		s.addTomato()
		s.model.On("plan_meals", testutils.ScriptedReply{Text: testutils.MustJSON(s.recipes.Plan(1))})

		var planner inbound.PlannerSnapshot
		s.assert.Success(s.do(http.MethodPost, "/api/v1/planner/generate", `{"days":1}`), http.StatusOK, &planner)

		assert.Equal(s.T(), view.PlannerReady, planner.Status)
		assert.Len(s.T(), planner.Plan, 1)
	})

	s.Run("Generate_EmptyInventory_ShouldReportEmpty", func() {
		s.SetupTest()

		var planner inbound.PlannerSnapshot
		s.assert.Success(s.do(http.MethodPost, "/api/v1/planner/generate", `{"days":5}`), http.StatusOK, &planner)

		assert.Equal(s.T(), view.PlannerEmpty, planner.Status)
		assert.Equal(s.T(), 5, planner.Days)
		assert.Empty(s.T(), planner.Plan)
		assert.Zero(s.T(), s.model.Calls("plan_meals"))

		s.assert.Success(s.do(http.MethodGet, "/api/v1/planner", ""), http.StatusOK, &planner)
		assert.Equal(s.T(), view.PlannerEmpty, planner.Status)
	})

	s.Run("Generate_TooManyDays_ShouldFailValidation", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodPost, "/api/v1/planner/generate", `{"days":90}`), http.StatusBadRequest, "VALIDATION_FAILED")
	})

	s.Run("Export_ShouldServeYAML", func() {
		s.SetupTest()
		s.workspace.SetMealPlan(s.recipes.Plan(2))

		rec := s.do(http.MethodGet, "/api/v1/planner/export", "")

		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "application/yaml", rec.Header().Get("Content-Type"))
		assert.Contains(s.T(), rec.Header().Get("Content-Disposition"), "meal-plan.yaml")

		var export handlers.PlanExport
		require.NoError(s.T(), yaml.Unmarshal(rec.Body.Bytes(), &export))
		assert.Equal(s.T(), 2, export.Days)
		require.Len(s.T(), export.Plan, 2)
		assert.Equal(s.T(), 2, export.Plan[1].Day)
	})

	s.Run("Export_WithoutPlan_ShouldBeNotFound", func() {
		s.SetupTest()
		s.assert.ErrorCode(s.do(http.MethodGet, "/api/v1/planner/export", ""), http.StatusNotFound, "NOT_FOUND")
	})

	s.Run("Export_Disabled_ShouldBeNotFound", func() {
		s.SetupTest()
		s.workspace.SetMealPlan(s.recipes.Plan(1))
		s.cfg.Features.EnablePlanExport = false
		h := handlers.NewAPIHandlers(s.workspace, nil, nil, s.cfg, zaptest.NewLogger(s.T()))

		rec := httptest.NewRecorder()
		h.ExportPlan(rec, httptest.NewRequest(http.MethodGet, "/api/v1/planner/export", nil))

		s.assert.ErrorCode(rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *HandlersTestSuite) TestChat() {
	s.Run("Post_ShouldAppendToTranscript", func() {
		s.SetupTest()
		s.model.On("chat", testutils.ScriptedReply{Text: "Try a frittata."})

		var reply chat.Reply
		s.assert.Success(s.do(http.MethodPost, "/api/v1/chat", `{"message":"eggs?"}`), http.StatusOK, &reply)
		assert.Equal(s.T(), "Try a frittata.", reply.Text)

		var msgs []chat.Message
		s.assert.Success(s.do(http.MethodGet, "/api/v1/chat", ""), http.StatusOK, &msgs)
		require.Len(s.T(), msgs, 3)
		assert.Equal(s.T(), "eggs?", msgs[1].Content)
	})

	s.Run("Stream_ShouldSendPartialsThenDone", func() {
		s.SetupTest()
		s.model.OnStream(
			testutils.ScriptedChunk{Text: "Boil "},
			testutils.ScriptedChunk{Text: "pasta", Citations: []chat.Citation{{Title: "Pasta", URI: "https://pasta"}}},
		)

		srv := httptest.NewServer(s.router)
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chat/stream"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(s.T(), err)
		defer conn.Close()

		require.NoError(s.T(), conn.WriteJSON(inbound.ChatCommand{Message: "dinner?"}))

		var frames []handlers.StreamFrame
		require.NoError(s.T(), conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		for {
			var frame handlers.StreamFrame
			require.NoError(s.T(), conn.ReadJSON(&frame))
			frames = append(frames, frame)
			if frame.Kind == string(chat.EventDone) {
				break
			}
		}

		require.Len(s.T(), frames, 3)
		assert.Equal(s.T(), "Boil ", frames[0].Text)
		assert.Equal(s.T(), "Boil pasta", frames[1].Text)
		require.Len(s.T(), frames[2].Links, 1)
		assert.Equal(s.T(), "https://pasta", frames[2].Links[0].URI)
	})

	s.Run("Stream_EmptyMessage_ShouldSendErrorFrame", func() {
		s.SetupTest()
		srv := httptest.NewServer(s.router)
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chat/stream"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(s.T(), err)
		defer conn.Close()

		require.NoError(s.T(), conn.WriteJSON(inbound.ChatCommand{}))

		var frame handlers.StreamFrame
		require.NoError(s.T(), conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(s.T(), conn.ReadJSON(&frame))
		assert.Equal(s.T(), "error", frame.Kind)
		require.NotNil(s.T(), frame.Error)
		assert.Equal(s.T(), "VALIDATION_FAILED", string(frame.Error.Code))
	})
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
