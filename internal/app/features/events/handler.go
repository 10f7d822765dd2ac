// internal/app/features/events/handler.go
package events

import (
	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the events feature.
type Handler struct {
	DB   *mongo.Database
	Log  *zap.Logger
	Refs *refs.Manager
}

func NewHandler(db *mongo.Database, logger *zap.Logger, refs *refs.Manager) *Handler {
	return &Handler{DB: db, Log: logger, Refs: refs}
}
