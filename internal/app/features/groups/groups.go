// internal/app/features/groups/groups.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	groupstore "github.com/dalemusser/lorehub/internal/app/store/groups"
	userstore "github.com/dalemusser/lorehub/internal/app/store/users"
	"github.com/dalemusser/lorehub/internal/app/system/authz"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func notFoundOrInternal(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gates.ErrNoAccess
	}
	return weberr.Wrap(weberr.Internal, "internal error", err)
}

type listResponse struct {
	Owned    []models.Group `json:"owned"`
	MemberOf []models.Group `json:"member_of"`
}

// HandleList returns the groups the actor created and the groups the
// actor belongs to.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, err := authz.Actor(ctx, h.DB, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	store := groupstore.New(h.DB)
	owned, err := store.ListByOwner(ctx, actor.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	memberOf, err := store.ListByIDs(ctx, actor.Groups)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if owned == nil {
		owned = []models.Group{}
	}
	if memberOf == nil {
		memberOf = []models.Group{}
	}
	httpjson.Respond(w, http.StatusOK, listResponse{Owned: owned, MemberOf: memberOf})
}

type createRequest struct {
	Name string `json:"name"`
}

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

	group, err := groupstore.New(h.DB).Create(ctx, models.Group{
		Name:    req.Name,
		OwnerID: actor.ID,
	})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateName) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "you already have a group with this name"))
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	h.Log.Info("group created", zap.String("group_id", group.ID.Hex()), zap.String("owner_id", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, group)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, _, err := h.loadOwnedGroup(ctx, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req renameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}

	store := groupstore.New(h.DB)
	if err := store.Rename(ctx, group.ID, req.Name); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, group.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a group after the caller confirms its exact
// name via ?confirm_name=. Memberships are pulled from every user;
// any group ids still sitting in groups_allowed arrays stop granting
// access once no user carries them.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, actor, err := h.loadOwnedGroup(ctx, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if r.URL.Query().Get("confirm_name") != group.Name {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "confirm_name must match the group name exactly"))
		return
	}

	removed, err := userstore.New(h.DB).RemoveGroupFromAll(ctx, group.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if err := groupstore.New(h.DB).Delete(ctx, group.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", group.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()),
		zap.Int64("memberships_removed", removed))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// loadOwnedGroup resolves {id} and verifies the actor owns the group.
// Non-owners get the same answer as a missing group.
func (h *Handler) loadOwnedGroup(ctx context.Context, r *http.Request) (models.Group, access.Actor, error) {
	actor, err := authz.Actor(ctx, h.DB, r)
	if err != nil {
		return models.Group{}, actor, err
	}
	id, err := gates.PathID(r, "id")
	if err != nil {
		return models.Group{}, actor, err
	}
	group, err := groupstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return models.Group{}, actor, notFoundOrInternal(err)
	}
	if group.OwnerID != actor.ID {
		return models.Group{}, actor, gates.ErrNoAccess
	}
	return group, actor, nil
}
