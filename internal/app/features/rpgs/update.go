// internal/app/features/rpgs/update.go
package rpgs

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	rpgstore "github.com/dalemusser/lorehub/internal/app/store/rpgs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
)

type updateRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// HandleUpdate edits a campaign's name and image. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.IsRpgOwner(actor, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the owner can edit this rpg"))
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

	store := rpgstore.New(h.DB)
	if err := store.UpdateInfo(ctx, rpg.ID, req.Name, req.ImageURL); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, rpg.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

type updateGroupsRequest struct {
	GroupsAllowed []string `json:"groups_allowed"`
}

// HandleUpdateGroups replaces the campaign's share list. Owner only.
// Existing sub-entities keep their snapshots; only the campaign gate
// changes.
func (h *Handler) HandleUpdateGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.IsRpgOwner(actor, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the owner can share this rpg"))
		return
	}

	var req updateGroupsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	groups, err := gates.IDList(req.GroupsAllowed, "groups_allowed")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := rpgstore.New(h.DB)
	if err := store.UpdateGroups(ctx, rpg.ID, groups); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, rpg.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}
