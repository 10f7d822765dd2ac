// internal/app/features/account/handler.go
package account

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for registration and
// session endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	// BcryptCost for new password hashes; 0 means bcrypt's default.
	BcryptCost int
}

func NewHandler(db *mongo.Database, logger *zap.Logger, bcryptCost int) *Handler {
	return &Handler{DB: db, Log: logger, BcryptCost: bcryptCost}
}
