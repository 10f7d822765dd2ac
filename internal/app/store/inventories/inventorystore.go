// internal/app/store/inventories/inventorystore.go
package inventorystore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c     *mongo.Collection
	items *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("inventories"),
		items: db.Collection("items"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Inventory, error) {
	var inv models.Inventory
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return models.Inventory{}, err
	}
	return inv, nil
}

func (s *Store) Create(ctx context.Context, inv models.Inventory) (models.Inventory, error) {
	now := time.Now().UTC()
	inv.ID = primitive.NewObjectID()
	if inv.Items == nil {
		inv.Items = []models.InventoryItem{}
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Inventory{}, err
	}
	return inv, nil
}

// SetItems replaces the inventory's item list wholesale.
func (s *Store) SetItems(ctx context.Context, id primitive.ObjectID, items []models.InventoryItem) error {
	if items == nil {
		items = []models.InventoryItem{}
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"items":      items,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetItem fetches a catalog item.
func (s *Store) GetItem(ctx context.Context, id primitive.ObjectID) (models.Item, error) {
	var it models.Item
	if err := s.items.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		return models.Item{}, err
	}
	return it, nil
}

// CreateItem adds a catalog item that inventories can reference.
func (s *Store) CreateItem(ctx context.Context, it models.Item) (models.Item, error) {
	now := time.Now().UTC()
	it.ID = primitive.NewObjectID()
	it.CreatedAt = now
	it.UpdatedAt = now
	if _, err := s.items.InsertOne(ctx, it); err != nil {
		return models.Item{}, err
	}
	return it, nil
}

// ListItems returns the item catalog.
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	cur, err := s.items.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
