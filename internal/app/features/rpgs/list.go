// internal/app/features/rpgs/list.go
package rpgs

import (
	"context"
	"net/http"

	rpgstore "github.com/dalemusser/lorehub/internal/app/store/rpgs"
	"github.com/dalemusser/lorehub/internal/app/system/authz"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
)

// HandleList returns every campaign the actor owns or has group
// access to, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, err := authz.Actor(ctx, h.DB, r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	rpgs, err := rpgstore.New(h.DB).ListAccessible(ctx, actor.ID, actor.Groups)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, rpgs)
}
