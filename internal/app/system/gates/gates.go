// Package gates provides the authorization entry points HTTP handlers
// call before touching campaign data.
//
// Authorization happens in two layers:
//
//  1. Route-level middleware (auth.RequireSignedIn) rejects anonymous
//     requests with 401 before a handler runs.
//  2. The campaign gate (this package) loads the session actor with
//     fresh group memberships and fetches the campaign through the
//     access query. A campaign that does not exist and a campaign the
//     actor may not enter produce the same "not found or no access"
//     error, so callers cannot probe for campaign ids.
//
// Per-resource rules beyond the gate live in policy/access and are the
// handler's responsibility.
package gates

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	"github.com/dalemusser/lorehub/internal/app/system/authz"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoAccess is the single answer for a campaign that is missing or
// closed to the actor.
var ErrNoAccess = weberr.E(weberr.NotFoundOrForbidden, "not found or no access")

// PathID parses the named chi URL parameter as an ObjectID.
func PathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, weberr.E(weberr.Validation, "invalid "+name)
	}
	return id, nil
}

// ID parses a hex ObjectID from a request body field.
func ID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, weberr.E(weberr.Validation, "invalid or missing "+field)
	}
	return id, nil
}

// IDList converts a list of hex ids into ObjectIDs, rejecting the
// whole list when any entry is malformed.
func IDList(hexes []string, field string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hx := range hexes {
		id, err := primitive.ObjectIDFromHex(hx)
		if err != nil {
			return nil, weberr.E(weberr.Validation, "invalid id in "+field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// QueryID parses a query-string parameter as an ObjectID.
func QueryID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get(name))
	if err != nil {
		return primitive.NilObjectID, weberr.E(weberr.Validation, "invalid or missing "+name)
	}
	return id, nil
}

// EnterRPG resolves the session actor and fetches the campaign through
// the access gate in a single query: the campaign must be owned by the
// actor or shared with one of the actor's groups.
func EnterRPG(ctx context.Context, db *mongo.Database, r *http.Request, rpgID primitive.ObjectID) (access.Actor, models.Rpg, error) {
	actor, err := authz.Actor(ctx, db, r)
	if err != nil {
		return access.Actor{}, models.Rpg{}, err
	}

	groups := actor.Groups
	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	filter := bson.M{
		"_id": rpgID,
		"$or": bson.A{
			bson.M{"owner_id": actor.ID},
			bson.M{"groups_allowed": bson.M{"$in": groups}},
		},
	}

	var rpg models.Rpg
	if err := db.Collection("rpgs").FindOne(ctx, filter).Decode(&rpg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return actor, models.Rpg{}, ErrNoAccess
		}
		return actor, models.Rpg{}, weberr.Wrap(weberr.Internal, "internal error", err)
	}
	return actor, rpg, nil
}
