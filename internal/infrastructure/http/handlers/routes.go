package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Mount registers the REST routes on r. The chat socket is mounted
// separately since it must not sit behind request timeouts.
func (h *APIHandlers) Mount(r chi.Router) {
	r.Route("/workspace", func(r chi.Router) {
		r.Get("/", h.GetWorkspace)
		r.Put("/tab", h.Navigate)
	})

	r.Get("/preferences", h.GetPreferences)
	r.Post("/onboarding", h.Onboard)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.ListInventory)
		r.Post("/", h.AddItem)
		r.Delete("/{id}", h.DeleteItem)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Post("/generate", h.GenerateRecipes)
		r.Post("/{id}/cook", h.CookRecipe)
	})

	r.Route("/planner", func(r chi.Router) {
		r.Get("/", h.GetPlanner)
		r.Post("/generate", h.GeneratePlan)
		r.Get("/export", h.ExportPlan)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Get("/", h.GetTranscript)
		r.Post("/", h.Chat)
	})
}
