// internal/app/features/inventories/items.go
package inventories

import (
	"context"
	"net/http"
	"strings"

	inventorystore "github.com/dalemusser/lorehub/internal/app/store/inventories"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

// The item catalog is shared across campaigns: any signed-in user can
// browse it and add entries for inventories to reference.

func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := inventorystore.New(h.DB).ListItems(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	httpjson.Respond(w, http.StatusOK, items)
}

func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := gates.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	item, err := inventorystore.New(h.DB).GetItem(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, notFoundOrInternal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, item)
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req createItemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}

	item, err := inventorystore.New(h.DB).CreateItem(ctx, models.Item{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	h.Log.Info("item created", zap.String("item_id", item.ID.Hex()), zap.String("name", item.Name))
	httpjson.Respond(w, http.StatusCreated, item)
}
