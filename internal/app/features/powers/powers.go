// internal/app/features/powers/powers.go
package powers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	powerstore "github.com/dalemusser/lorehub/internal/app/store/powers"
	sectionstore "github.com/dalemusser/lorehub/internal/app/store/powersections"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/htmlsanitize"
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

// HandleList returns the powers in a section the actor may see.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sectionID, err := gates.QueryID(r, "section_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	s, err := sectionstore.New(h.DB).GetByID(ctx, sectionID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, s.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	powers, err := powerstore.New(h.DB).ListBySection(ctx, s.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	visible := access.Filter(powers, func(p models.Power) bool {
		return access.PowerVisibleInList(actor, p, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}

// HandleGet fetches one power.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p, err := powerstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, p.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadPower(actor, &p, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, p)
}

type createRequest struct {
	SectionID string `json:"section_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Content   string `json:"content"`
	PowerType string `json:"power_type"`
	Private   bool   `json:"private"`
}

// HandleCreate adds a power to a section. Authorization goes through
// the owning character.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	sectionID, err := gates.ID(req.SectionID, "section_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}
	if !models.ValidPowerType(req.PowerType) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "power_type must be \"skill\" or \"transformation\""))
		return
	}

	s, err := sectionstore.New(h.DB).GetByID(ctx, sectionID)
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
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can add powers"))
		return
	}

	p, err := powerstore.New(h.DB).Create(ctx, models.Power{
		RpgID:       s.RpgID,
		CharacterID: s.CharacterID,
		SectionID:   s.ID,
		OwnerID:     ch.OwnerID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Content:     htmlsanitize.Content(req.Content),
		PowerType:   req.PowerType,
		Private:     req.Private,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("power created",
		zap.String("power_id", p.ID.Hex()),
		zap.String("section_id", s.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, p)
}

type updateRequest struct {
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Content   string `json:"content"`
	PowerType string `json:"power_type"`
	Private   bool   `json:"private"`
}

// HandleUpdate edits a power.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := powerstore.New(h.DB)
	p, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, p.CharacterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, p.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can edit this power"))
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
	if !models.ValidPowerType(req.PowerType) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "power_type must be \"skill\" or \"transformation\""))
		return
	}

	if err := store.Update(ctx, p.ID, req.Name, req.ImageURL, htmlsanitize.Content(req.Content), req.PowerType, req.Private); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, p.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a power.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := powerstore.New(h.DB)
	p, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, p.CharacterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, p.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the character owner or rpg owner can delete this power"))
		return
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
