// internal/app/features/rpgs/delete.go
package rpgs

import (
	"context"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	rpgstore "github.com/dalemusser/lorehub/internal/app/store/rpgs"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.uber.org/zap"
)

// HandleDelete removes a campaign. Owner only. Sub-entities keep their
// documents; they become unreachable once the gate is gone, and their
// own delete paths still clean them up individually.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.IsRpgOwner(actor, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "only the owner can delete this rpg"))
		return
	}

	if err := rpgstore.New(h.DB).Delete(ctx, rpg.ID); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("rpg deleted",
		zap.String("rpg_id", rpg.ID.Hex()),
		zap.String("deleted_by", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
