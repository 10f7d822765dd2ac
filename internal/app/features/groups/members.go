// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/lorehub/internal/app/store/users"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

// Membership lives on users.groups, so member operations are user
// updates keyed by this group's id. Only the group owner manages
// membership.

func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, _, err := h.loadOwnedGroup(ctx, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	members, err := userstore.New(h.DB).ListByGroup(ctx, group.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if members == nil {
		members = []models.User{}
	}
	httpjson.Respond(w, http.StatusOK, members)
}

type addMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// HandleAddMembers adds one or more users to the group. $addToSet
// makes repeats harmless.
func (h *Handler) HandleAddMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, actor, err := h.loadOwnedGroup(ctx, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var req addMembersRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if len(req.UserIDs) == 0 {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "user_ids is required"))
		return
	}
	userIDs, err := gates.IDList(req.UserIDs, "user_ids")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := userstore.New(h.DB).AddManyToGroup(ctx, userIDs, group.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	h.Log.Info("group members added",
		zap.String("group_id", group.ID.Hex()),
		zap.Int("count", len(userIDs)),
		zap.String("added_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, _, err := h.loadOwnedGroup(ctx, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	userID, err := gates.PathID(r, "userID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := userstore.New(h.DB).RemoveFromGroup(ctx, userID, group.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "removed"})
}
