// internal/app/features/inventories/routes.go
package inventories

import (
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the inventory endpoints. Inventories are created and
// deleted with their character, so only read and update are exposed.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
	})
	return r
}

// ItemRoutes mounts the shared item catalog that inventories draw from.
func ItemRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.HandleListItems)
		pr.Post("/", h.HandleCreateItem)
		pr.Get("/{id}", h.HandleGetItem)
	})
	return r
}
