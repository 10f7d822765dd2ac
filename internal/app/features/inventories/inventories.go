// internal/app/features/inventories/inventories.go
package inventories

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	inventorystore "github.com/dalemusser/lorehub/internal/app/store/inventories"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

func notFoundOrInternal(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gates.ErrNoAccess
	}
	return weberr.Wrap(weberr.Internal, "internal error", err)
}

// HandleGet fetches an inventory. Inventories carry no privacy flag of
// their own; visibility follows the owning character.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	inv, err := inventorystore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByInventoryID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
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
	httpjson.Respond(w, http.StatusOK, inv)
}

type updateRequest struct {
	Items []struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

// HandleUpdate replaces the inventory's item list wholesale.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	store := inventorystore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	ch, err := characterstore.New(h.DB).GetByInventoryID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, ch.RpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !access.CanWriteCharacterScoped(actor, &ch, &rpg) {
		httpjson.Error(w, h.Log, weberr.E(weberr.Forbidden, "no permission to modify this inventory"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	items := make([]models.InventoryItem, 0, len(req.Items))
	for _, it := range req.Items {
		itemID, err := gates.ID(it.ItemID, "item_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if it.Quantity < 1 {
			httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "quantity must be at least 1"))
			return
		}
		items = append(items, models.InventoryItem{ItemID: itemID, Quantity: it.Quantity})
	}

	if err := store.SetItems(ctx, id, items); err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	updated, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}
