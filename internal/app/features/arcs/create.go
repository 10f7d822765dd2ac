// internal/app/features/arcs/create.go
package arcs

import (
	"context"
	"net/http"
	"strings"

	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	RpgID         string   `json:"rpg_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed"`
}

// HandleCreate creates an arc inside a campaign the actor can enter.
// The arc's share list comes from the group inheritance policy.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	rpgID, err := gates.ID(req.RpgID, "rpg_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, rpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	supplied, err := gates.IDList(req.GroupsAllowed, "groups_allowed")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	arc, err := arcstore.New(h.DB).Create(ctx, models.Arc{
		RpgID:         rpg.ID,
		Name:          req.Name,
		Description:   req.Description,
		OwnerID:       actor.ID,
		Private:       req.Private,
		GroupsAllowed: h.Refs.SnapshotGroups(rpg.GroupsAllowed, supplied),
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("arc created",
		zap.String("arc_id", arc.ID.Hex()),
		zap.String("rpg_id", rpg.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, arc)
}
