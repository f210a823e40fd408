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

// RestaurantRepositoryInterface answers the only catalog question the order
// engine asks about restaurants: does this one exist.
type RestaurantRepositoryInterface interface {
	GetByID(ctx context.Context, restaurantID string) (*models.Restaurant, error)
}

type RestaurantRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewRestaurantRepository(log *logger.Logger, db *database.DB) *RestaurantRepository {
	return &RestaurantRepository{
		collection: db.Collection("restaurants"),
		logger:     log.WithComponent("restaurant_repository"),
	}
}

// GetByID retrieves a restaurant by id.
func (r *RestaurantRepository) GetByID(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(restaurantID)
	if err != nil {
		r.logger.Warn("Invalid restaurant id", "restaurant_id", restaurantID)
		return nil, models.ErrRestaurantNotFound
	}

	var doc struct {
		ID     primitive.ObjectID `bson:"_id"`
		Name   string             `bson:"name"`
		ImgURL string             `bson:"img_url"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		r.logger.Warn("Restaurant not found", "restaurant_id", restaurantID)
		return nil, models.ErrRestaurantNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get restaurant", "restaurant_id", restaurantID, "error", err)
		return nil, fmt.Errorf("failed to get restaurant: %v", err)
	}

	return &models.Restaurant{
		ID:     doc.ID.Hex(),
		Name:   doc.Name,
		ImgURL: doc.ImgURL,
	}, nil
}
