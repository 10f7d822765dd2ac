// internal/app/store/characters/characterstore.go
package characterstore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("characters")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Character, error) {
	var ch models.Character
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ch); err != nil {
		return models.Character{}, err
	}
	return ch, nil
}

// GetBySheetID finds the character that points at the given sheet.
func (s *Store) GetBySheetID(ctx context.Context, sheetID primitive.ObjectID) (models.Character, error) {
	var ch models.Character
	if err := s.c.FindOne(ctx, bson.M{"sheet_id": sheetID}).Decode(&ch); err != nil {
		return models.Character{}, err
	}
	return ch, nil
}

// GetByInventoryID finds the character that points at the given inventory.
func (s *Store) GetByInventoryID(ctx context.Context, inventoryID primitive.ObjectID) (models.Character, error) {
	var ch models.Character
	if err := s.c.FindOne(ctx, bson.M{"inventory_id": inventoryID}).Decode(&ch); err != nil {
		return models.Character{}, err
	}
	return ch, nil
}

func (s *Store) Create(ctx context.Context, ch models.Character) (models.Character, error) {
	now := time.Now().UTC()
	ch.ID = primitive.NewObjectID()
	ch.NameCI = text.Fold(ch.Name)
	if ch.GroupsAllowed == nil {
		ch.GroupsAllowed = []primitive.ObjectID{}
	}
	if ch.OrganizationIDs == nil {
		ch.OrganizationIDs = []primitive.ObjectID{}
	}
	if ch.HistoryIDs == nil {
		ch.HistoryIDs = []primitive.ObjectID{}
	}
	ch.CreatedAt = now
	ch.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ch); err != nil {
		return models.Character{}, err
	}
	return ch, nil
}

func (s *Store) ListByRpg(ctx context.Context, rpgID primitive.ObjectID) ([]models.Character, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"rpg_id": rpgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chars []models.Character
	if err := cur.All(ctx, &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

// ListByIDs resolves a set of characters, e.g. an organization's
// member list or an event's cast.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Character, error) {
	if len(ids) == 0 {
		return []models.Character{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chars []models.Character
	if err := cur.All(ctx, &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name string, age int, imageURL string, private bool, groups []primitive.ObjectID) error {
	set := bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"age":        age,
		"image_url":  imageURL,
		"private":    private,
		"updated_at": time.Now().UTC(),
	}
	if groups != nil {
		set["groups_allowed"] = groups
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
