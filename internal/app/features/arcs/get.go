// internal/app/features/arcs/get.go
package arcs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleGet fetches one arc. Direct fetch by id only requires
// owner or group access; the private flag does not apply here, unlike
// the list view.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	arc, err := arcstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, gates.ErrNoAccess)
			return
		}
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, arc.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanReadArc(actor, &arc, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, arc)
}
