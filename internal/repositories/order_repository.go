package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/database"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// OrderRepositoryInterface is the only path through which order state is
// read or written. Every write is scoped to the narrowest field path (one
// participant's cart, or the status+timestamp pair) so concurrent edits to
// different participants never clobber each other. Business invariants are
// the lifecycle engine's job; this adapter only guarantees atomicity of the
// field-scoped write it performs.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SetParticipantCart(ctx context.Context, orderID primitive.ObjectID, participantID string, cart models.ParticipantCart) error
	SetStatus(ctx context.Context, orderID primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, at time.Time) (bool, error)
	FindByCounter(ctx context.Context, counter uint32) ([]primitive.ObjectID, error)
}

type OrderRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewOrderRepository creates an OrderRepository backed by the orders
// collection of the given database handle.
func NewOrderRepository(log *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
		logger:     log.WithComponent("order_repository"),
	}
}

// Insert stores a new order document and returns its assigned id.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		r.logger.Error("Failed to insert order", "restaurant_id", order.RestaurantID, "error", err)
		return primitive.NilObjectID, fmt.Errorf("failed to insert order: %v", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	r.logger.Info("Inserted order", "order_id", id.Hex(), "restaurant_id", order.RestaurantID)
	return id, nil
}

// GetByID retrieves a single order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		r.logger.Warn("Order not found", "order_id", id.Hex())
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get order", "order_id", id.Hex(), "error", err)
		return nil, fmt.Errorf("failed to get order: %v", err)
	}
	return &order, nil
}

// SetParticipantCart atomically replaces one participant's cart without
// disturbing sibling carts or the status field. Creates the participant slot
// when it does not exist yet, which is how join seeds an empty cart.
func (r *OrderRepository) SetParticipantCart(ctx context.Context, orderID primitive.ObjectID, participantID string, cart models.ParticipantCart) error {
	field := "users." + participantID

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{field: cart}},
	)
	if err != nil {
		r.logger.Error("Failed to set participant cart",
			"order_id", orderID.Hex(), "user_id", participantID, "error", err)
		return fmt.Errorf("failed to set participant cart: %v", err)
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("Order not found for cart write", "order_id", orderID.Hex())
		return models.ErrOrderNotFound
	}

	r.logger.Debug("Participant cart written",
		"order_id", orderID.Hex(), "user_id", participantID, "lines", len(cart.Products))
	return nil
}

// SetStatus atomically moves an order to the given status when its current
// status is one of the allowed values, stamping the matching timestamp
// field. Returns false when no document matched the guard, leaving the
// caller to distinguish a missing order from an illegal transition.
func (r *OrderRepository) SetStatus(ctx context.Context, orderID primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, at time.Time) (bool, error) {
	set := bson.M{"status": to}
	switch to {
	case models.StatusFinalized:
		set["finalized_at"] = at
	case models.StatusFulfilled:
		set["fulfilled_at"] = at
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": orderID, "status": bson.M{"$in": from}},
		bson.M{"$set": set},
	)
	if err != nil {
		r.logger.Error("Failed to set order status",
			"order_id", orderID.Hex(), "status", to, "error", err)
		return false, fmt.Errorf("failed to set order status: %v", err)
	}

	if result.MatchedCount == 0 {
		r.logger.Warn("Status guard did not match",
			"order_id", orderID.Hex(), "status", to)
		return false, nil
	}

	r.logger.Info("Order status changed", "order_id", orderID.Hex(), "status", to)
	return true, nil
}

// FindByCounter returns the ids of all orders whose ObjectID ends with the
// given 16-bit counter value. The short code encoding is lossy, so callers
// must verify the truncated timestamp against each candidate.
func (r *OrderRepository) FindByCounter(ctx context.Context, counter uint32) ([]primitive.ObjectID, error) {
	// Match on the hex suffix of the id: the low 16 bits of the counter are
	// the last two bytes, i.e. the last four hex characters.
	pattern := fmt.Sprintf("^[0-9a-f]{20}%04x$", counter&0xFFFF)

	filter := bson.M{
		"$expr": bson.M{
			"$regexMatch": bson.M{
				"input": bson.M{"$toString": "$_id"},
				"regex": pattern,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		r.logger.Error("Failed to scan orders by counter", "counter", counter, "error", err)
		return nil, fmt.Errorf("failed to scan orders by counter: %v", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order id: %v", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan orders by counter: %v", err)
	}

	r.logger.Debug("Scanned orders by counter", "counter", counter, "candidates", len(ids))
	return ids, nil
}
