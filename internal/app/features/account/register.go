// internal/app/features/account/register.go
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
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account and signs it in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Username = authutil.NormalizeUsername(req.Username)
	if err := authutil.ValidateUsername(req.Username); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	hash, err := authutil.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, err.Error()))
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Role:     u.Role,
	}); err != nil {
		h.Log.Error("register: failed to establish session", zap.Error(err))
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, u)
}
