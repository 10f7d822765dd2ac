// internal/app/features/events/create.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"

	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	eventstore "github.com/dalemusser/lorehub/internal/app/store/events"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	ArcID        string   `json:"arc_id"`
	Name         string   `json:"name"`
	CharacterIDs []string `json:"character_ids"`
}

// HandleCreate creates an event under an arc. The event's share list
// snapshots the arc's per the group inheritance policy.
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
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}

	arc, err := arcstore.New(h.DB).GetByID(ctx, arcID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	actor, _, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	characterIDs, err := gates.IDList(req.CharacterIDs, "character_ids")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ev, err := eventstore.New(h.DB).Create(ctx, models.Event{
		RpgID:         arc.RpgID,
		ArcID:         arc.ID,
		Name:          req.Name,
		OwnerID:       actor.ID,
		GroupsAllowed: h.Refs.SnapshotGroups(arc.GroupsAllowed, nil),
		CharacterIDs:  characterIDs,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("arc_id", arc.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, ev)
}
