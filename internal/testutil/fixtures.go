package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls chain: each adds to any route context already present.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user who belongs to the given groups.
func (f *Fixtures) CreateUser(ctx context.Context, username string, groups ...primitive.ObjectID) models.User {
	f.t.Helper()

	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
		Role:         models.RoleUser,
		Groups:       groups,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup creates a test group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, ownerID primitive.ObjectID, name string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateRpg creates a test campaign shared with the given groups.
func (f *Fixtures) CreateRpg(ctx context.Context, ownerID primitive.ObjectID, name string, groups ...primitive.ObjectID) models.Rpg {
	f.t.Helper()

	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	r := models.Rpg{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		OwnerID:       ownerID,
		GroupsAllowed: groups,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("rpgs").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test rpg: %v", err)
	}
	return r
}

// CreateArc creates a test arc inheriting the campaign's share list.
func (f *Fixtures) CreateArc(ctx context.Context, rpg models.Rpg, ownerID primitive.ObjectID, name string, private bool) models.Arc {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Arc{
		ID:            primitive.NewObjectID(),
		RpgID:         rpg.ID,
		Name:          name,
		OwnerID:       ownerID,
		Private:       private,
		GroupsAllowed: append([]primitive.ObjectID{}, rpg.GroupsAllowed...),
		HistoryIDs:    []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("arcs").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test arc: %v", err)
	}
	return a
}

// CreateEvent creates a test event under an arc.
func (f *Fixtures) CreateEvent(ctx context.Context, arc models.Arc, ownerID primitive.ObjectID, name string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:            primitive.NewObjectID(),
		RpgID:         arc.RpgID,
		ArcID:         arc.ID,
		Name:          name,
		OwnerID:       ownerID,
		GroupsAllowed: append([]primitive.ObjectID{}, arc.GroupsAllowed...),
		CharacterIDs:  []primitive.ObjectID{},
		HistoryIDs:    []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreateCharacter creates a test character with an empty sheet and
// inventory, the way the create handler provisions them.
func (f *Fixtures) CreateCharacter(ctx context.Context, rpg models.Rpg, ownerID primitive.ObjectID, name string, private bool) models.Character {
	f.t.Helper()

	now := time.Now().UTC()
	sheet := models.Sheet{
		ID:        primitive.NewObjectID(),
		RpgID:     rpg.ID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("sheets").InsertOne(ctx, sheet); err != nil {
		f.t.Fatalf("failed to create test sheet: %v", err)
	}
	inv := models.Inventory{
		ID:        primitive.NewObjectID(),
		Items:     []models.InventoryItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("inventories").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test inventory: %v", err)
	}

	ch := models.Character{
		ID:              primitive.NewObjectID(),
		RpgID:           rpg.ID,
		OwnerID:         ownerID,
		Name:            name,
		NameCI:          text.Fold(name),
		Age:             25,
		Private:         private,
		GroupsAllowed:   append([]primitive.ObjectID{}, rpg.GroupsAllowed...),
		OrganizationIDs: []primitive.ObjectID{},
		HistoryIDs:      []primitive.ObjectID{},
		SheetID:         sheet.ID,
		InventoryID:     inv.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("characters").InsertOne(ctx, ch); err != nil {
		f.t.Fatalf("failed to create test character: %v", err)
	}
	return ch
}

// CreateOrganization creates a test organization attached to the
// campaign with a single owner.
func (f *Fixtures) CreateOrganization(ctx context.Context, rpg models.Rpg, ownerID primitive.ObjectID, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.Organization{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Since:         "long ago",
		RpgIDs:        []primitive.ObjectID{rpg.ID},
		OwnerIDs:      []primitive.ObjectID{ownerID},
		GroupsAllowed: append([]primitive.ObjectID{}, rpg.GroupsAllowed...),
		HistoryIDs:    []primitive.ObjectID{},
		CharacterIDs:  []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return o
}

// CreateHistory creates a chapter and links it to the parent's
// history_ids array.
func (f *Fixtures) CreateHistory(ctx context.Context, rpgID primitive.ObjectID, ownerID primitive.ObjectID, parentType string, parentID primitive.ObjectID, chapterName string) models.History {
	f.t.Helper()

	now := time.Now().UTC()
	h := models.History{
		ID:           primitive.NewObjectID(),
		RpgID:        rpgID,
		ChapterName:  chapterName,
		Content:      "<p>once upon a time</p>",
		OwnerID:      ownerID,
		UpdatedByID:  ownerID,
		CharacterIDs: []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("histories").InsertOne(ctx, h); err != nil {
		f.t.Fatalf("failed to create test history: %v", err)
	}

	coll := map[string]string{
		models.HistoryParentCharacter:    "characters",
		models.HistoryParentArc:          "arcs",
		models.HistoryParentEvent:        "events",
		models.HistoryParentOrganization: "organizations",
	}[parentType]
	if coll == "" {
		f.t.Fatalf("unknown history parent type %q", parentType)
	}
	_, err := f.db.Collection(coll).UpdateByID(ctx, parentID,
		map[string]any{"$push": map[string]any{"history_ids": h.ID}})
	if err != nil {
		f.t.Fatalf("failed to link test history: %v", err)
	}
	return h
}

// CreatePowerSection creates a power section on a character.
func (f *Fixtures) CreatePowerSection(ctx context.Context, ch models.Character, name string) models.PowerSection {
	f.t.Helper()

	now := time.Now().UTC()
	ps := models.PowerSection{
		ID:          primitive.NewObjectID(),
		RpgID:       ch.RpgID,
		CharacterID: ch.ID,
		OwnerID:     ch.OwnerID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("power_sections").InsertOne(ctx, ps); err != nil {
		f.t.Fatalf("failed to create test power section: %v", err)
	}
	return ps
}

// CreatePower creates a power inside a section.
func (f *Fixtures) CreatePower(ctx context.Context, ps models.PowerSection, name string) models.Power {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Power{
		ID:          primitive.NewObjectID(),
		RpgID:       ps.RpgID,
		CharacterID: ps.CharacterID,
		SectionID:   ps.ID,
		OwnerID:     ps.OwnerID,
		Name:        name,
		Content:     "does something useful",
		PowerType:   models.PowerTypeSkill,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("powers").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test power: %v", err)
	}
	return p
}
