// internal/app/features/arcs/edit.go
package arcs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed,omitempty"`
}

// HandleUpdate edits an arc. Arc owner or campaign owner only; group
// access alone never grants writes.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := arcstore.New(h.DB)
	arc, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, arc.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the arc owner or rpg owner can edit this arc"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}
	// Group access is re-snapshotted through the inheritance policy on
	// every update: under inherit the campaign's list wins and a
	// caller-supplied list is ignored, so only the campaign owner can
	// effectively reassign group access.
	supplied := arc.GroupsAllowed
	if req.GroupsAllowed != nil {
		supplied, err = gates.IDList(req.GroupsAllowed, "groups_allowed")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}
	groupIDs := h.Refs.SnapshotGroups(rpg.GroupsAllowed, supplied)

	if err := store.Update(ctx, arc.ID, req.Name, req.Description, req.Private, groupIDs); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, arc.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes an arc together with its events, feats, and
// history chapters. Arc owner or campaign owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	arc, err := arcstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, arc.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the arc owner or rpg owner can delete this arc"))
		return
	}

	if err := h.Refs.DeleteArcCascade(ctx, arc); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("arc deleted",
		zap.String("arc_id", arc.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
