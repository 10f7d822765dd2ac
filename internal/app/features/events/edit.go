// internal/app/features/events/edit.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	eventstore "github.com/dalemusser/lorehub/internal/app/store/events"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Name         string   `json:"name"`
	CharacterIDs []string `json:"character_ids,omitempty"`
}

// HandleUpdate edits an event. Event owner or campaign owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := eventstore.New(h.DB)
	ev, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ev.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, ev.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the event owner or rpg owner can edit this event"))
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
	characterIDs := ev.CharacterIDs
	if req.CharacterIDs != nil {
		characterIDs, err = gates.IDList(req.CharacterIDs, "character_ids")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	if err := store.Update(ctx, ev.ID, req.Name, characterIDs); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, ev.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes an event and its history chapters. Event owner
// or campaign owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ev, err := eventstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ev.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteOwned(actor, ev.OwnerID, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the event owner or rpg owner can delete this event"))
		return
	}

	if err := h.Refs.DeleteEventCascade(ctx, ev); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("event deleted",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
