// internal/app/features/account/routes.go
package account

import "github.com/go-chi/chi/v5"

// Routes returns the registration and session endpoints, mounted at
// the site root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	return r
}
