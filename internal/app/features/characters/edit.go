// internal/app/features/characters/edit.go
package characters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	ImageURL      string   `json:"image_url"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed,omitempty"`
}

// HandleUpdate edits a character. Character owner or campaign owner
// only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := characterstore.New(h.DB)
	ch, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ch.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, ch.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can edit this character"))
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
	if req.Age < 0 {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "age cannot be negative"))
		return
	}
	groups := ch.GroupsAllowed
	if req.GroupsAllowed != nil {
		groups, err = gates.IDList(req.GroupsAllowed, "groups_allowed")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	if err := store.Update(ctx, ch.ID, req.Name, req.Age, req.ImageURL, req.Private, groups); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, ch.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a character along with its sheet, inventory,
// feats, power sections, powers, histories, and organization
// memberships. Character owner or campaign owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ch, err := characterstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ch.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, ch.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can delete this character"))
		return
	}

	if err := h.Refs.DeleteCharacterCascade(ctx, ch); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("character deleted",
		zap.String("character_id", ch.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
