// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureRpgs(ctx, db); err != nil {
		problems = append(problems, "rpgs: "+err.Error())
	}
	if err := ensureArcs(ctx, db); err != nil {
		problems = append(problems, "arcs: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureCharacters(ctx, db); err != nil {
		problems = append(problems, "characters: "+err.Error())
	}
	if err := ensureCharacterFeats(ctx, db); err != nil {
		problems = append(problems, "character_feats: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensurePowerSections(ctx, db); err != nil {
		problems = append(problems, "power_sections: "+err.Error())
	}
	if err := ensurePowers(ctx, db); err != nil {
		problems = append(problems, "powers: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Usernames must be unique (case/diacritics folded via username_ci).
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_usernameci"),
		},
		// Derived group member lists query on the groups array.
		{
			Keys:    bson.D{{Key: "groups", Value: 1}},
			Options: options.Index().SetName("idx_users_groups"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate group names per owner.
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_groups_owner_nameci"),
		},
	})
}

func ensureRpgs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("rpgs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// "my campaigns" listing
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_rpgs_owner_created"),
		},
		// The access gate's $in over the shared-groups list.
		{
			Keys:    bson.D{{Key: "groups_allowed", Value: 1}},
			Options: options.Index().SetName("idx_rpgs_groups"),
		},
	})
}

func ensureArcs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("arcs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rpg_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_arcs_rpg_created"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "arc_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_events_arc_created"),
		},
	})
}

func ensureCharacters(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("characters")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rpg_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_characters_rpg_nameci"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_characters_owner"),
		},
	})
}

func ensureCharacterFeats(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("character_feats")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one feat per character per arc.
		{
			Keys:    bson.D{{Key: "arc_id", Value: 1}, {Key: "character_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_feats_arc_character"),
		},
		{
			Keys:    bson.D{{Key: "character_id", Value: 1}},
			Options: options.Index().SetName("idx_feats_character"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("organizations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Listing organizations attached to a campaign queries the
		// rpg_ids array.
		{
			Keys:    bson.D{{Key: "rpg_ids", Value: 1}},
			Options: options.Index().SetName("idx_orgs_rpgs"),
		},
		{
			Keys:    bson.D{{Key: "owner_ids", Value: 1}},
			Options: options.Index().SetName("idx_orgs_owners"),
		},
	})
}

func ensurePowerSections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("power_sections")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "character_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_sections_character_created"),
		},
	})
}

func ensurePowers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("powers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "section_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_powers_section_created"),
		},
		// Character-wide cascade deletes query by character_id.
		{
			Keys:    bson.D{{Key: "character_id", Value: 1}},
			Options: options.Index().SetName("idx_powers_character"),
		},
	})
}
