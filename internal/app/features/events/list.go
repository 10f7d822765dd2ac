// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	eventstore "github.com/dalemusser/lorehub/internal/app/store/events"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleList returns the events under an arc, newest first. Passing
// the campaign gate is enough to read events.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	arcID, err := gates.QueryID(r, "arc_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
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
	if _, _, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	events, err := eventstore.New(h.DB).ListByArc(ctx, arc.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, events)
}
