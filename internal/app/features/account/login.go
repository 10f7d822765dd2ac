// internal/app/features/account/login.go
package account

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/lorehub/internal/app/store/users"
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/authutil"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and establishes a session. Bad
// username and bad password produce the same answer.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Username = authutil.NormalizeUsername(req.Username)
	u, err := userstore.New(h.DB).GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Unauthorized, "invalid username or password"))
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	if !authutil.CheckPassword(u.PasswordHash, req.Password) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Unauthorized, "invalid username or password"))
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Role:     u.Role,
	}); err != nil {
		h.Log.Error("login: failed to establish session", zap.Error(err))
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, u)
}
