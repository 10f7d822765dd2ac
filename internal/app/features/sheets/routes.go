// internal/app/features/sheets/routes.go
package sheets

import (
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the sheet endpoints. Sheets are created and deleted
// with their character, so only read and update are exposed here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
	})
	return r
}
