// internal/app/features/account/logout.go
package account

import (
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleLogout clears the session. Logging out while not signed in is
// not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: failed to clear session", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "signed out"})
}
