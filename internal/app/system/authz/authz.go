// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"net/http"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserCtx returns the session user's Mongo ObjectID, username and a
// found flag. If no user is present in context or the user ID is
// malformed, it returns NilObjectID and false — callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (userID primitive.ObjectID, username string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return primitive.NilObjectID, "", false
	}
	return userID, user.Username, true
}

// Actor resolves the request's actor for access evaluation: the session
// identity plus group memberships read fresh from the users collection.
// No caching — a membership change is effective on the next request.
//
// Errors: Unauthorized when there is no session, NotFound when the
// session points at a user document that no longer exists.
func Actor(ctx context.Context, db *mongo.Database, r *http.Request) (access.Actor, error) {
	userID, _, ok := UserCtx(r)
	if !ok {
		return access.Actor{}, weberr.E(weberr.Unauthorized, "unauthorized")
	}

	var u struct {
		Groups []primitive.ObjectID `bson:"groups"`
	}
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return access.Actor{}, weberr.E(weberr.NotFound, "user not found")
	}
	if err != nil {
		return access.Actor{}, err
	}

	return access.Actor{ID: userID, Groups: u.Groups}, nil
}
