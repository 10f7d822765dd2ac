// internal/app/features/organizations/orgs.go
package organizations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	orgstore "github.com/dalemusser/lorehub/internal/app/store/organizations"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func notFoundOrInternal(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gates.ErrNoAccess
	}
	return weberr.Wrap(weberr.Internal, "internal error", err)
}

// HandleList returns the organizations attached to a campaign that
// the actor may see; private ones only for their owners and the
// campaign owner.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rpgID, err := gates.QueryID(r, "rpg_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, rpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	orgs, err := orgstore.New(h.DB).ListByRpg(ctx, rpg.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	visible := access.Filter(orgs, func(o models.Organization) bool {
		return access.OrganizationVisibleInList(actor, o, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}

// HandleGet fetches one organization, gated through its primary
// campaign.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	o, err := orgstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadOrganization(actor, &o, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, o)
}

type createRequest struct {
	RpgID         string   `json:"rpg_id"`
	Name          string   `json:"name"`
	Since         string   `json:"since"`
	ImageURL      string   `json:"image_url"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed"`
}

// HandleCreate creates an organization with the actor as its first
// owner and the campaign as its primary.
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

	o, err := orgstore.New(h.DB).Create(ctx, models.Organization{
		Name:          req.Name,
		Since:         req.Since,
		ImageURL:      req.ImageURL,
		Private:       req.Private,
		RpgIDs:        []primitive.ObjectID{rpg.ID},
		OwnerIDs:      []primitive.ObjectID{actor.ID},
		GroupsAllowed: h.Refs.SnapshotGroups(rpg.GroupsAllowed, supplied),
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("organization created",
		zap.String("organization_id", o.ID.Hex()),
		zap.String("rpg_id", rpg.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, o)
}

type updateRequest struct {
	Name          string   `json:"name"`
	Since         string   `json:"since"`
	ImageURL      string   `json:"image_url"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed,omitempty"`
}

// HandleUpdate edits an organization. Any of its owners, or the
// campaign owner.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := orgstore.New(h.DB)
	o, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOrganization(actor, &o, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only an organization owner or the rpg owner can edit this organization"))
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
	groups := o.GroupsAllowed
	if req.GroupsAllowed != nil {
		groups, err = gates.IDList(req.GroupsAllowed, "groups_allowed")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	if err := store.Update(ctx, o.ID, req.Name, req.Since, req.ImageURL, req.Private, groups); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, o.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes an organization, its histories, and its
// membership entries on characters.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	o, err := orgstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOrganization(actor, &o, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only an organization owner or the rpg owner can delete this organization"))
		return
	}

	if err := h.Refs.DeleteOrganizationCascade(ctx, o); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("organization deleted",
		zap.String("organization_id", o.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type addOwnerRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddOwner adds a co-owner to the organization. Existing owners
// and the campaign owner may do this; owners are never removed, only
// added, matching the multi-owner model.
func (h *Handler) HandleAddOwner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := orgstore.New(h.DB)
	o, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOrganization(actor, &o, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only an organization owner or the rpg owner can add owners"))
		return
	}

	var req addOwnerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	userID, err := gates.ID(req.UserID, "user_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := store.AddOwner(ctx, o.ID, userID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, o.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}
