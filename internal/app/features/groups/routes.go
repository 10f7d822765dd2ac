// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleRename)
		pr.Delete("/{id}", h.HandleDelete) // ?confirm_name=
		pr.Get("/{id}/members", h.HandleListMembers)
		pr.Post("/{id}/members", h.HandleAddMembers)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	})
	return r
}
