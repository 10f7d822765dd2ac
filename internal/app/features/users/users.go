// internal/app/features/users/users.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/lorehub/internal/app/store/users"
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleList returns the user roster for member pickers. Password
// hashes are projected out in the store. ?exclude_group= hides users
// already in the named group.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var excludeGroup primitive.ObjectID
	if raw := r.URL.Query().Get("exclude_group"); raw != "" {
		id, err := gates.ID(raw, "exclude_group")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		excludeGroup = id
	}

	roster, err := userstore.New(h.DB).List(ctx, excludeGroup)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if roster == nil {
		roster = []models.User{}
	}
	httpjson.Respond(w, http.StatusOK, roster)
}

// HandleMe returns the signed-in user's own record.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, h.Log, weberr.E(weberr.Unauthorized, "sign in required"))
		return
	}
	id, err := gates.ID(su.ID, "session user id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	u, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Unauthorized, "sign in required"))
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}
