package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/database"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// UserRepositoryInterface reads operator accounts for the authorization
// gate. Credential handling lives in the identity service.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(log *logger.Logger, db *database.DB) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		logger:     log.WithComponent("user_repository"),
	}
}

// GetByID retrieves an operator account by id.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		r.logger.Warn("Invalid user id", "user_id", userID)
		return nil, models.ErrUnauthorized
	}

	var doc struct {
		ID       primitive.ObjectID `bson:"_id"`
		Username string             `bson:"username"`
		Controls []string           `bson:"controls"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		r.logger.Warn("User not found", "user_id", userID)
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		r.logger.Error("Failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	return &models.User{
		ID:       doc.ID.Hex(),
		Username: doc.Username,
		Controls: doc.Controls,
	}, nil
}
