// internal/app/store/organizations/orgstore.go
package orgstore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var o models.Organization
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return models.Organization{}, err
	}
	return o, nil
}

func (s *Store) Create(ctx context.Context, o models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	if o.RpgIDs == nil {
		o.RpgIDs = []primitive.ObjectID{}
	}
	if o.OwnerIDs == nil {
		o.OwnerIDs = []primitive.ObjectID{}
	}
	if o.GroupsAllowed == nil {
		o.GroupsAllowed = []primitive.ObjectID{}
	}
	if o.HistoryIDs == nil {
		o.HistoryIDs = []primitive.ObjectID{}
	}
	if o.CharacterIDs == nil {
		o.CharacterIDs = []primitive.ObjectID{}
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Organization{}, err
	}
	return o, nil
}

// ListByRpg returns the organizations attached to a campaign (the
// campaign may appear anywhere in rpg_ids, not only first).
func (s *Store) ListByRpg(ctx context.Context, rpgID primitive.ObjectID) ([]models.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"rpg_ids": rpgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Organization, error) {
	if len(ids) == 0 {
		return []models.Organization{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, since, imageURL string, private bool, groups []primitive.ObjectID) error {
	set := bson.M{
		"name":       name,
		"since":      since,
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

// AddOwner idempotently adds a co-owner.
func (s *Store) AddOwner(ctx context.Context, id, ownerID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"owner_ids": ownerID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
