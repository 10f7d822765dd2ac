// internal/app/features/characters/get.go
package characters

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleGet fetches one character. Unlike arcs, a private character
// stays hidden from group members even on direct fetch by id.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if !access.CanReadCharacter(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, gates.ErrNoAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, ch)
}
