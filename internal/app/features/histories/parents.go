// internal/app/features/histories/parents.go
package histories

import (
	"context"
	"errors"

	arcstore "github.com/dalemusser/lorehub/internal/app/store/arcs"
	characterstore "github.com/dalemusser/lorehub/internal/app/store/characters"
	eventstore "github.com/dalemusser/lorehub/internal/app/store/events"
	orgstore "github.com/dalemusser/lorehub/internal/app/store/organizations"
	"github.com/dalemusser/lorehub/internal/app/system/gates"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// parentInfo is what the histories feature needs to know about a
// chapter's parent: which campaign roots it and who counts as its
// owner for the delete rule.
type parentInfo struct {
	RpgID primitive.ObjectID

	// isOwner reports whether the given user owns the parent. For
	// organizations this is a membership test over owner_ids.
	isOwner func(userID primitive.ObjectID) bool
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gates.ErrNoAccess
	}
	return weberr.Wrap(weberr.Internal, "internal error", err)
}

// loadParent resolves a history parent reference.
func (h *Handler) loadParent(ctx context.Context, parentType string, parentID primitive.ObjectID) (parentInfo, error) {
	switch parentType {
	case models.HistoryParentCharacter:
		ch, err := characterstore.New(h.DB).GetByID(ctx, parentID)
		if err != nil {
			return parentInfo{}, notFoundOrInternal(err)
		}
		return parentInfo{RpgID: ch.RpgID, isOwner: func(u primitive.ObjectID) bool { return u == ch.OwnerID }}, nil
	case models.HistoryParentArc:
		a, err := arcstore.New(h.DB).GetByID(ctx, parentID)
		if err != nil {
			return parentInfo{}, notFoundOrInternal(err)
		}
		return parentInfo{RpgID: a.RpgID, isOwner: func(u primitive.ObjectID) bool { return u == a.OwnerID }}, nil
	case models.HistoryParentEvent:
		ev, err := eventstore.New(h.DB).GetByID(ctx, parentID)
		if err != nil {
			return parentInfo{}, notFoundOrInternal(err)
		}
		return parentInfo{RpgID: ev.RpgID, isOwner: func(u primitive.ObjectID) bool { return u == ev.OwnerID }}, nil
	case models.HistoryParentOrganization:
		o, err := orgstore.New(h.DB).GetByID(ctx, parentID)
		if err != nil {
			return parentInfo{}, notFoundOrInternal(err)
		}
		return parentInfo{RpgID: o.PrimaryRpgID(), isOwner: o.OwnedBy}, nil
	}
	return parentInfo{}, weberr.E(weberr.Validation, "parent_type must be one of character, arc, event, organization")
}
