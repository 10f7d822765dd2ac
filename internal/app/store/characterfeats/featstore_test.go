// internal/app/store/characterfeats/featstore_test.go
package featstore_test

import (
	"errors"
	"testing"

	featstore "github.com/dalemusser/lorehub/internal/app/store/characterfeats"
	"github.com/dalemusser/lorehub/internal/app/system/indexes"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
)

func TestCreate_DuplicatePairRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := featstore.New(db)

	// The arc+character pair is enforced by a unique index.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	arc := f.CreateArc(ctx, rpg, owner.ID, "Act One", false)
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)

	feat := models.CharacterFeat{
		RpgID:       rpg.ID,
		ArcID:       arc.ID,
		CharacterID: ch.ID,
		OwnerID:     owner.ID,
		Content:     "Slew the dragon.",
	}
	if _, err := store.Create(ctx, feat); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := store.Create(ctx, feat)
	if !errors.Is(err, featstore.ErrDuplicateFeat) {
		t.Fatalf("expected ErrDuplicateFeat for same arc+character, got %v", err)
	}

	// A different character in the same arc is fine.
	other := f.CreateCharacter(ctx, rpg, owner.ID, "Mira", false)
	feat.CharacterID = other.ID
	if _, err := store.Create(ctx, feat); err != nil {
		t.Fatalf("different character: %v", err)
	}
}
