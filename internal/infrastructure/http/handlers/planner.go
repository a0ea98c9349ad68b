package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

// PlanExport is the document served by the plan export
type PlanExport struct {
	GeneratedAt string                `yaml:"generated_at"`
	Days        int                   `yaml:"days"`
	Plan        []kitchen.MealPlanDay `yaml:"plan"`
}

// GetPlanner handles GET /api/v1/planner
func (h *APIHandlers) GetPlanner(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.workspace.Planner(), "")
}

// GeneratePlan handles POST /api/v1/planner/generate
func (h *APIHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GeneratePlanCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	snapshot, err := h.workspace.GeneratePlan(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, snapshot, "")
}

// ExportPlan handles GET /api/v1/planner/export
func (h *APIHandlers) ExportPlan(w http.ResponseWriter, r *http.Request) {
	if !h.features.EnablePlanExport {
		h.respondError(w, r, errors.NewNotFoundError("Plan export"))
		return
	}

	planner := h.workspace.Planner()
	if len(planner.Plan) == 0 {
		h.respondError(w, r, errors.NewNotFoundError("Meal plan"))
		return
	}

	body, err := yaml.Marshal(PlanExport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Days:        len(planner.Plan),
		Plan:        planner.Plan,
	})
	if err != nil {
		h.respondError(w, r, errors.NewInternalError("Failed to export meal plan").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="meal-plan.yaml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("Failed to write plan export", zap.Error(err))
	}
}
