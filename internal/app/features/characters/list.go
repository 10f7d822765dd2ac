// internal/app/features/characters/list.go
package characters

import (
	"context"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
)

// HandleList returns the campaign's characters the actor may see.
// For a non-owner the character must be shared with one of the actor's
// groups AND not private; private is stricter here than for arcs.
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

	chars, err := characterstore.New(h.DB).ListByRpg(ctx, rpg.ID)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	visible := access.Filter(chars, func(ch models.Character) bool {
		return access.CharacterVisibleInList(actor, ch, &rpg)
	})
	httpjson.Respond(w, http.StatusOK, visible)
}
