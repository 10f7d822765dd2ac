// internal/app/features/organizations/members.go
package organizations

import (
	"context"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	orgstore "github.com/dalemusser/lorehub/internal/app/store/organizations"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.uber.org/zap"
)

type addMemberRequest struct {
	CharacterID string `json:"character_id"`
}

// HandleAddMember records a character as a member of the
// organization, updating both sides of the relationship. Re-adding an
// existing member is a no-op.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req addMemberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	characterID, err := gates.ID(req.CharacterID, "character_id")
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
	ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	// Membership changes need write access to the organization or to
	// the character being enrolled.
	if !access.CanWriteOrganization(actor, &o, &rpg) && !access.CanWriteOwned(actor, ch.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "no permission to change this membership"))
		return
	}

	if err := h.Refs.AddOrganizationMember(ctx, o.ID, ch.ID); err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}

	h.Log.Info("organization member added",
		zap.String("organization_id", o.ID.Hex()),
		zap.String("character_id", ch.ID.Hex()))
	updated, err := store.GetByID(ctx, o.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleRemoveMember removes a character from the organization,
// updating both sides. Removing a non-member is a no-op.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	characterID, err := gates.PathID(r, "characterID")
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
	ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, o.PrimaryRpgID())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOrganization(actor, &o, &rpg) && !access.CanWriteOwned(actor, ch.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "no permission to change this membership"))
		return
	}

	if err := h.Refs.RemoveOrganizationMember(ctx, o.ID, ch.ID); err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}

	h.Log.Info("organization member removed",
		zap.String("organization_id", o.ID.Hex()),
		zap.String("character_id", ch.ID.Hex()))
	updated, err := store.GetByID(ctx, o.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}
