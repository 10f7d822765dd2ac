// internal/app/features/arcs/list.go
package arcs

import (
	"context"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
)

// HandleList returns the arcs of a campaign the actor may see. A
// private arc is hidden from everyone except its owner and the
// campaign owner, even group members who could fetch it directly by
// id.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rpgID, err := gates.QueryID(r, "rpg_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, rpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	arcs, err := arcstore.New(h.DB).ListByRpg(ctx, rpg.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	visible := access.Filter(arcs, func(a models.Arc) bool {
		return access.ArcVisibleInList(actor, a, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}
