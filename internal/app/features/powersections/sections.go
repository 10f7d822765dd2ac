// internal/app/features/powersections/sections.go
package powersections

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	sectionstore "github.com/dalemusser/lorehub/internal/app/store/powersections"
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

// HandleList returns a character's power sections the actor may see.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	characterID, err := gates.QueryID(r, "character_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ch.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	sections, err := sectionstore.New(h.DB).ListByCharacter(ctx, ch.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	visible := access.Filter(sections, func(s models.PowerSection) bool {
		return access.PowerSectionVisibleInList(actor, s, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}

// HandleGet fetches one power section.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	s, err := sectionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, s.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadPowerSection(actor, &s, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, s)
}

type createRequest struct {
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Private     bool   `json:"private"`
}

// HandleCreate adds a power section to a character. Writes authorize
// through the character's owner, not the section's.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	characterID, err := gates.ID(req.CharacterID, "character_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}

	ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ch.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can add power sections"))
		return
	}

	s, err := sectionstore.New(h.DB).Create(ctx, models.PowerSection{
		RpgID:       ch.RpgID,
		CharacterID: ch.ID,
		OwnerID:     ch.OwnerID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Private:     req.Private,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("power section created",
		zap.String("section_id", s.ID.Hex()),
		zap.String("character_id", ch.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, s)
}

type updateRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Private  bool   `json:"private"`
}

// HandleUpdate edits a power section.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := sectionstore.New(h.DB)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, s.CharacterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, s.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can edit this section"))
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

	if err := store.Update(ctx, s.ID, req.Name, req.ImageURL, req.Private); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, s.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a section and every power inside it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	s, err := sectionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, s.CharacterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, s.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can delete this section"))
		return
	}

	if err := h.Refs.DeletePowerSectionCascade(ctx, s.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("power section deleted",
		zap.String("section_id", s.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
