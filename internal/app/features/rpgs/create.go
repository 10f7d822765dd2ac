// internal/app/features/rpgs/create.go
package rpgs

import (
	"context"
	"net/http"
	"strings"

	rpgstore "github.com/dalemusser/lorehub/internal/app/store/rpgs"
	"github.com/dalemusser/lorehub/internal/app/system/authz"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name          string   `json:"name"`
	ImageURL      string   `json:"image_url"`
	GroupsAllowed []string `json:"groups_allowed"`
}

// HandleCreate creates a campaign owned by the actor. Any signed-in
// user may create one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, err := authz.Actor(ctx, h.DB, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}
	groups, err := gates.IDList(req.GroupsAllowed, "groups_allowed")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	rpg, err := rpgstore.New(h.DB).Create(ctx, models.Rpg{
		Name:          req.Name,
		OwnerID:       actor.ID,
		ImageURL:      req.ImageURL,
		GroupsAllowed: groups,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("rpg created",
		zap.String("rpg_id", rpg.ID.Hex()),
		zap.String("owner_id", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, rpg)
}
