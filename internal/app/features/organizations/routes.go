// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.HandleList) // ?rpg_id=
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/owners", h.HandleAddOwner)

		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Delete("/{id}/members/{characterID}", h.HandleRemoveMember)
	})
	return r
}
