// internal/app/features/histories/histories.go
package histories

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	historystore "github.com/dalemusser/lorehub/internal/app/store/histories"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleListByIDs resolves a parent's history_ids list, keeping the
// order the ids were given in and dropping chapters the actor may not
// see.
func (h *Handler) HandleListByIDs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		httpjson.Respond(w, http.StatusOK, []models.History{})
		return
	}
	ids, err := gates.IDList(strings.Split(raw, ","), "ids")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	chapters, err := historystore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if len(chapters) == 0 {
		httpjson.Respond(w, http.StatusOK, chapters)
		return
	}

	// The ids come from a single parent's history_ids, so every
	// chapter shares one campaign; gate once on the first and drop
	// anything from another campaign below. A mixed-campaign list is
	// not a supported request shape.
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, chapters[0].RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	visible := access.Filter(chapters, func(c models.History) bool {
		return c.RpgID == rpg.ID && access.HistoryVisibleInList(actor, c, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}

// HandleGet fetches one chapter.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	chapter, err := historystore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, chapter.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadHistory(actor, &chapter, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, chapter)
}

type createRequest struct {
	ParentType   string   `json:"parent_type"`
	ParentID     string   `json:"parent_id"`
	ChapterName  string   `json:"chapter_name"`
	Content      string   `json:"content"`
	ImageURL     string   `json:"image_url"`
	Year         *int     `json:"year"`
	Private      bool     `json:"private"`
	CharacterIDs []string `json:"character_ids"`
}

// HandleCreate writes a chapter and links it into the parent's
// history_ids array. Anyone past the campaign gate can add chapters.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !models.ValidHistoryParent(req.ParentType) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "parent_type must be one of character, arc, event, organization"))
		return
	}
	parentID, err := gates.ID(req.ParentID, "parent_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.ChapterName = strings.TrimSpace(req.ChapterName)
	if req.ChapterName == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "chapter_name is required"))
		return
	}

	parent, err := h.loadParent(ctx, req.ParentType, parentID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, _, err := gates.EnterRPG(ctx, h.DB, r, parent.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	characterIDs, err := gates.IDList(req.CharacterIDs, "character_ids")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	chapter, err := historystore.New(h.DB).Create(ctx, models.History{
		RpgID:        parent.RpgID,
		ChapterName:  req.ChapterName,
		Content:      htmlsanitize.Content(req.Content),
		OwnerID:      actor.ID,
		UpdatedByID:  actor.ID,
		Private:      req.Private,
		CharacterIDs: characterIDs,
		Year:         req.Year,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	if err := h.Refs.LinkHistory(ctx, req.ParentType, parentID, chapter.ID); err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}

	h.Log.Info("history created",
		zap.String("history_id", chapter.ID.Hex()),
		zap.String("parent_type", req.ParentType),
		zap.String("parent_id", parentID.Hex()))
	httpjson.Respond(w, http.StatusCreated, chapter)
}

type updateRequest struct {
	ChapterName  string   `json:"chapter_name"`
	Content      string   `json:"content"`
	ImageURL     string   `json:"image_url"`
	Year         *int     `json:"year"`
	Private      bool     `json:"private"`
	CharacterIDs []string `json:"character_ids,omitempty"`
}

// HandleUpdate edits a chapter. This is the collaborative surface:
// any actor who passes the campaign gate may edit, and updated_by_id
// records who touched it last.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := historystore.New(h.DB)
	chapter, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, chapter.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanEditHistory(actor, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.ChapterName = strings.TrimSpace(req.ChapterName)
	if req.ChapterName == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "chapter_name is required"))
		return
	}
	characterIDs := chapter.CharacterIDs
	if req.CharacterIDs != nil {
		characterIDs, err = gates.IDList(req.CharacterIDs, "character_ids")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	err = store.Update(ctx, chapter.ID, req.ChapterName, htmlsanitize.Content(req.Content),
		req.ImageURL, req.Year, req.Private, characterIDs, actor.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, chapter.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes a chapter and unlinks it from its parent.
// Deletion is stricter than editing: chapter owner, campaign owner, or
// the owner of the named parent.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := historystore.New(h.DB)
	chapter, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, chapter.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// The parent reference arrives as query parameters so the server
	// can unlink the chapter and apply the parent-owner rule.
	parentType := r.URL.Query().Get("parent_type")
	parentOwner := primitive.NilObjectID
	var parentID primitive.ObjectID
	if parentType != "" {
		if !models.ValidHistoryParent(parentType) {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "parent_type must be one of character, arc, event, organization"))
			return
		}
		parentID, err = gates.QueryID(r, "parent_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		parent, err := h.loadParent(ctx, parentType, parentID)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if parent.isOwner(actor.ID) {
			parentOwner = actor.ID
		}
	}

	if !access.CanDeleteHistory(actor, &chapter, &rpg, parentOwner) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "no permission to delete this history"))
		return
	}

	if err := store.Delete(ctx, chapter.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if parentType != "" {
		if err := h.Refs.UnlinkHistory(ctx, parentType, parentID, chapter.ID); err != nil {
			h.Log.Warn("history deleted but unlink from parent failed",
				zap.String("history_id", chapter.ID.Hex()),
				zap.String("parent_type", parentType),
				zap.Error(err))
		}
	}

	h.Log.Info("history deleted",
		zap.String("history_id", chapter.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
