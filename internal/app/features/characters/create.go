// internal/app/features/characters/create.go
package characters

import (
	"context"
	"net/http"
	"strings"

	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	inventorystore "github.com/dalemusser/lorehub/internal/app/store/inventories"
	sheetstore "github.com/dalemusser/lorehub/internal/app/store/sheets"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/httpjson"
	"github.com/dalemusser/lorehub/internal/app/system/timeouts"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	RpgID         string   `json:"rpg_id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	ImageURL      string   `json:"image_url"`
	Private       bool     `json:"private"`
	GroupsAllowed []string `json:"groups_allowed"`
}

// HandleCreate creates a character and provisions its empty sheet and
// inventory in the same request. Any actor who passes the campaign
// gate may create characters.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	rpgID, err := gates.ID(req.RpgID, "rpg_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "name is required"))
		return
	}
	if req.Age < 0 {
		httpjson.Error(w, h.Log, weberr.E(weberr.Validation, "age cannot be negative"))
		return
	}

	actor, rpg, err := gates.EnterRPG(ctx, h.DB, r, rpgID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	supplied, err := gates.IDList(req.GroupsAllowed, "groups_allowed")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// Provision the sheet and inventory first so the character never
	// exists without them.
	sheet, err := sheetstore.New(h.DB).Create(ctx, models.Sheet{
		RpgID:   rpg.ID,
		OwnerID: actor.ID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}
	inv, err := inventorystore.New(h.DB).Create(ctx, models.Inventory{})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	ch, err := characterstore.New(h.DB).Create(ctx, models.Character{
		RpgID:         rpg.ID,
		OwnerID:       actor.ID,
		Name:          req.Name,
		Age:           req.Age,
		ImageURL:      req.ImageURL,
		Private:       req.Private,
		GroupsAllowed: h.Refs.SnapshotGroups(rpg.GroupsAllowed, supplied),
		SheetID:       sheet.ID,
		InventoryID:   inv.ID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, weberr.Wrap(weberr.Internal, "internal error", err))
		return
	}

	h.Log.Info("character created",
		zap.String("character_id", ch.ID.Hex()),
		zap.String("rpg_id", rpg.ID.Hex()),
		zap.String("owner_id", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, ch)
}
