// internal/app/features/characterfeats/feats.go
package characterfeats

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	featstore "github.com/dalemusser/lorehub/internal/app/store/characterfeats"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleList returns the feats for an arc or a character, private
// ones filtered to their owner and the campaign owner.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := featstore.New(h.DB)
	var feats []models.CharacterFeat
	var rpgID primitive.ObjectID

	if q := r.URL.Query(); q.Get("arc_id") != "" {
		arcID, err := gates.QueryID(r, "arc_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		arc, err := arcstore.New(h.DB).GetByID(ctx, arcID)
		if err != nil {
			httpjson.Error(w, h.Log, notFoundOrInternal(err))
			return
		}
		rpgID = arc.RpgID
		feats, err = store.ListByArc(ctx, arcID)
		if err != nil {
			httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
			return
		}
	} else {
		characterID, err := gates.QueryID(r, "character_id")
		if err != nil {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "arc_id or character_id is required"))
			return
		}
		ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
		if err != nil {
			httpjson.Error(w, h.Log, notFoundOrInternal(err))
			return
		}
		rpgID = ch.RpgID
		feats, err = store.ListByCharacter(ctx, characterID)
		if err != nil {
			httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
			return
		}
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, rpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	visible := access.Filter(feats, func(f models.CharacterFeat) bool {
		return access.CharacterFeatVisibleInList(actor, f, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}

// HandleGet fetches one feat.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	f, err := featstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, f.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadCharacterFeat(actor, &f, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, f)
}

type createRequest struct {
	ArcID       string `json:"arc_id"`
	CharacterID string `json:"character_id"`
	Content     string `json:"content"`
	Private     bool   `json:"private"`
}

// HandleCreate records a feat for a character in one arc. The unique
// index keeps it to one feat per (arc, character) pair.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	arcID, err := gates.ID(req.ArcID, "arc_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	characterID, err := gates.ID(req.CharacterID, "character_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "content is required"))
		return
	}

	arc, err := arcstore.New(h.DB).GetByID(ctx, arcID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByID(ctx, characterID)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	if ch.RpgID != arc.RpgID {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "arc and character belong to different rpgs"))
		return
	}

	actor, _, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	f, err := featstore.New(h.DB).Create(ctx, models.CharacterFeat{
		RpgID:       arc.RpgID,
		ArcID:       arc.ID,
		CharacterID: ch.ID,
		OwnerID:     actor.ID,
		Private:     req.Private,
		Content:     htmlsanitize.Content(req.Content),
	})
	if err != nil {
		if errors.Is(err, featstore.ErrDuplicateFeat) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, err.Error()))
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("character feat created",
		zap.String("feat_id", f.ID.Hex()),
		zap.String("arc_id", arc.ID.Hex()),
		zap.String("character_id", ch.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, f)
}

type updateRequest struct {
	Content string `json:"content"`
	Private bool   `json:"private"`
}

// HandleUpdate edits a feat. Feat owner or campaign owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := featstore.New(h.DB)
	f, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, f.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, f.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the feat owner or rpg owner can edit this feat"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "content is required"))
		return
	}

	if err := store.Update(ctx, f.ID, htmlsanitize.Content(req.Content), req.Private); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, f.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a feat. Feat owner or campaign owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := featstore.New(h.DB)
	f, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, f.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, f.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the feat owner or rpg owner can delete this feat"))
		return
	}

	if err := store.Delete(ctx, f.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gates.ErrNoAccess
	}
	return weberr.Wrap(weberr.Internal, "internal error", err)
}
