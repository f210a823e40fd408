package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/02loveslollipop/MiPedido/internal/repositories"
	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// ModifyCartRequest carries one participant cart mutation. Quantity 0 means
// "remove this line"; a zero-quantity line is never persisted.
type ModifyCartRequest struct {
	ProductID   string   `json:"product_id"`
	Quantity    int      `json:"quantity"`
	Ingredients []string `json:"ingredients"`
}

// OrderServiceInterface is the order lifecycle engine: creation, joining,
// per-participant cart mutation, finalization and fulfillment. It enforces
// the open -> finalized -> fulfilled state machine; all persistence goes
// through the order repository's field-scoped writes.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, restaurantID string) (orderID, participantID string, err error)
	JoinOrder(ctx context.Context, orderID string) (participantID string, err error)
	ModifyCart(ctx context.Context, orderID, participantID string, req ModifyCartRequest) (models.ModifyResult, error)
	GetParticipantCart(ctx context.Context, orderID, participantID string) ([]models.CartLine, error)
	FinalizeOrder(ctx context.Context, orderID, actorID string) (*models.FinalizedOrder, error)
	FulfillOrder(ctx context.Context, orderID, actorID string) (time.Time, error)
}

type OrderService struct {
	orderRepo      repositories.OrderRepositoryInterface
	restaurantRepo repositories.RestaurantRepositoryInterface
	catalog        CatalogValidatorInterface
	gate           AuthorizationGateInterface
	logger         *logger.Logger
	now            func() time.Time
}

// NewOrderService creates an OrderService with the given collaborators.
func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	restaurantRepo repositories.RestaurantRepositoryInterface,
	catalog CatalogValidatorInterface,
	gate AuthorizationGateInterface,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		catalog:        catalog,
		gate:           gate,
		logger:         log.WithComponent("order_service"),
		now:            time.Now,
	}
}

// CreateOrder mints an open order for the restaurant, seeded with exactly
// one participant holding an empty cart. The participants map of a stored
// order is therefore never empty.
func (s *OrderService) CreateOrder(ctx context.Context, restaurantID string) (string, string, error) {
	s.logger.Info("Creating order", "restaurant_id", restaurantID)

	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		s.logger.Warn("Create failed: restaurant lookup", "restaurant_id", restaurantID, "error", err)
		return "", "", err
	}

	participantID := primitive.NewObjectID().Hex()
	order := &models.Order{
		RestaurantID: restaurantID,
		Users: map[string]models.ParticipantCart{
			participantID: {Products: []models.CartLine{}},
		},
		Status:    models.StatusOpen,
		CreatedAt: s.now().UTC(),
	}

	orderID, err := s.orderRepo.Insert(ctx, order)
	if err != nil {
		return "", "", err
	}

	s.logger.Info("Order created", "order_id", orderID.Hex(), "user_id", participantID)
	return orderID.Hex(), participantID, nil
}

// JoinOrder adds a fresh participant with an empty cart. Joining is allowed
// in any status: it never touches the status field, only adds a slot.
// Whether a client permits edits after finalize is its own policy.
func (s *OrderService) JoinOrder(ctx context.Context, orderID string) (string, error) {
	s.logger.Info("Joining order", "order_id", orderID)

	oid, err := parseOrderID(orderID)
	if err != nil {
		return "", err
	}

	participantID := primitive.NewObjectID().Hex()
	err = s.orderRepo.SetParticipantCart(ctx, oid, participantID, models.ParticipantCart{Products: []models.CartLine{}})
	if err != nil {
		s.logger.Warn("Join failed", "order_id", orderID, "error", err)
		return "", err
	}

	s.logger.Info("Participant joined order", "order_id", orderID, "user_id", participantID)
	return participantID, nil
}

// ModifyCart applies one mutation to one participant's cart. The catalog is
// consulted for the current product snapshot and the requested ingredient
// subset; the resulting line carries that snapshot verbatim. Lines are
// distinct by product id only, so re-adding a product replaces its line.
func (s *OrderService) ModifyCart(ctx context.Context, orderID, participantID string, req ModifyCartRequest) (models.ModifyResult, error) {
	s.logger.Info("Modifying cart",
		"order_id", orderID, "user_id", participantID,
		"product_id", req.ProductID, "quantity", req.Quantity)

	if req.Quantity < 0 {
		s.logger.Warn("Modify failed: negative quantity", "order_id", orderID, "quantity", req.Quantity)
		return "", models.ErrInvalidQuantity
	}

	oid, err := parseOrderID(orderID)
	if err != nil {
		return "", err
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return "", err
	}

	cart, ok := order.Users[participantID]
	if !ok {
		s.logger.Warn("Participant not found", "order_id", orderID, "user_id", participantID)
		return "", models.ErrParticipantNotFound
	}

	product, err := s.catalog.ValidateProduct(ctx, order.RestaurantID, req.ProductID, req.Ingredients)
	if err != nil {
		s.logger.Warn("Modify failed: catalog validation",
			"order_id", orderID, "product_id", req.ProductID, "error", err)
		return "", err
	}

	if req.Quantity == 0 {
		updated, removed := removeLine(cart.Products, req.ProductID)
		if !removed {
			// Nothing to remove; deleting an absent line is still success.
			return models.ModifyDeleted, nil
		}
		if err := s.orderRepo.SetParticipantCart(ctx, oid, participantID, models.ParticipantCart{Products: updated}); err != nil {
			return "", err
		}
		return models.ModifyDeleted, nil
	}

	line := models.CartLine{
		ProductID:   req.ProductID,
		Name:        product.Name,
		Price:       product.Price,
		ImgURL:      product.ImgURL,
		Quantity:    req.Quantity,
		Ingredients: req.Ingredients,
	}

	updated, replaced := upsertLine(cart.Products, line)
	if err := s.orderRepo.SetParticipantCart(ctx, oid, participantID, models.ParticipantCart{Products: updated}); err != nil {
		return "", err
	}

	if replaced {
		return models.ModifyUpdated, nil
	}
	return models.ModifyCreated, nil
}

// GetParticipantCart returns one participant's current lines.
func (s *OrderService) GetParticipantCart(ctx context.Context, orderID, participantID string) ([]models.CartLine, error) {
	oid, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	cart, ok := order.Users[participantID]
	if !ok {
		s.logger.Warn("Participant not found", "order_id", orderID, "user_id", participantID)
		return nil, models.ErrParticipantNotFound
	}

	if cart.Products == nil {
		return []models.CartLine{}, nil
	}
	return cart.Products, nil
}

// FinalizeOrder collapses the live participant carts into the aggregate
// bill, moves the order to finalized and refreshes finalized_at. It may be
// repeated while the order is open or finalized; each call re-aggregates
// current cart state. A fulfilled order cannot be finalized.
func (s *OrderService) FinalizeOrder(ctx context.Context, orderID, actorID string) (*models.FinalizedOrder, error) {
	s.logger.Info("Finalizing order", "order_id", orderID, "user_id", actorID)

	oid, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actorID, order.RestaurantID); err != nil {
		return nil, err
	}

	if order.Status == models.StatusFulfilled {
		s.logger.Warn("Cannot finalize a fulfilled order", "order_id", orderID)
		return nil, models.ErrOrderFulfilled
	}

	now := s.now().UTC()
	result := aggregate(order, now)

	// The guard re-checks status at write time: a concurrent fulfill may
	// have landed since the read above.
	matched, err := s.orderRepo.SetStatus(ctx, oid,
		[]models.OrderStatus{models.StatusOpen, models.StatusFinalized},
		models.StatusFinalized, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		if _, err := s.orderRepo.GetByID(ctx, oid); err != nil {
			return nil, err
		}
		s.logger.Warn("Cannot finalize a fulfilled order", "order_id", orderID)
		return nil, models.ErrOrderFulfilled
	}

	s.logger.Info("Order finalized",
		"order_id", orderID,
		"total_price", result.TotalPrice,
		"total_quantity", result.TotalQuantity)
	return result, nil
}

// FulfillOrder performs the terminal transition. It requires a finalized
// order, and the repository guard makes the write a check-then-set: when two
// fulfill calls race, exactly one observes finalized -> fulfilled and the
// other is rejected without re-stamping the timestamp.
func (s *OrderService) FulfillOrder(ctx context.Context, orderID, actorID string) (time.Time, error) {
	s.logger.Info("Fulfilling order", "order_id", orderID, "user_id", actorID)

	oid, err := parseOrderID(orderID)
	if err != nil {
		return time.Time{}, err
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return time.Time{}, err
	}

	if err := s.authorize(ctx, actorID, order.RestaurantID); err != nil {
		return time.Time{}, err
	}

	switch order.Status {
	case models.StatusOpen:
		s.logger.Warn("Cannot fulfill an order that was never finalized", "order_id", orderID)
		return time.Time{}, models.ErrOrderNotFinalized
	case models.StatusFulfilled:
		s.logger.Warn("Order is already fulfilled", "order_id", orderID)
		return time.Time{}, models.ErrOrderFulfilled
	}

	now := s.now().UTC()
	matched, err := s.orderRepo.SetStatus(ctx, oid,
		[]models.OrderStatus{models.StatusFinalized},
		models.StatusFulfilled, now)
	if err != nil {
		return time.Time{}, err
	}
	if !matched {
		// Lost the race or the order changed under us; classify from the
		// current document.
		current, err := s.orderRepo.GetByID(ctx, oid)
		if err != nil {
			return time.Time{}, err
		}
		if current.Status == models.StatusFulfilled {
			return time.Time{}, models.ErrOrderFulfilled
		}
		return time.Time{}, models.ErrOrderNotFinalized
	}

	s.logger.Info("Order fulfilled", "order_id", orderID, "fulfilled_at", now)
	return now, nil
}

func (s *OrderService) authorize(ctx context.Context, actorID, restaurantID string) error {
	controls, err := s.gate.Controls(ctx, actorID, restaurantID)
	if err != nil {
		s.logger.Error("Authorization check failed", "user_id", actorID, "error", err)
		return err
	}
	if !controls {
		return models.ErrUnauthorized
	}
	return nil
}

// parseOrderID converts the wire form of an order id. An id that cannot be
// an ObjectID cannot name a stored order.
func parseOrderID(orderID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return primitive.NilObjectID, models.ErrOrderNotFound
	}
	return oid, nil
}

// removeLine drops the line for productID. Reports whether a line was
// actually removed.
func removeLine(lines []models.CartLine, productID string) ([]models.CartLine, bool) {
	updated := make([]models.CartLine, 0, len(lines))
	removed := false
	for _, line := range lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		updated = append(updated, line)
	}
	return updated, removed
}

// upsertLine replaces the existing line for the product wholesale, or
// appends a new one. Reports whether an existing line was replaced.
func upsertLine(lines []models.CartLine, line models.CartLine) ([]models.CartLine, bool) {
	updated := make([]models.CartLine, len(lines))
	copy(updated, lines)
	for i := range updated {
		if updated[i].ProductID == line.ProductID {
			updated[i] = line
			return updated, true
		}
	}
	return append(updated, line), false
}

// groupKey canonicalizes a (product, sorted ingredient set) pair. Every
// element is length-prefixed so an ingredient name containing the separator
// cannot alias a different set.
func groupKey(productID string, sortedIngredients []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%s", len(productID), productID)
	for _, ing := range sortedIngredients {
		fmt.Fprintf(&b, "|%d:%s", len(ing), ing)
	}
	return b.String()
}

// aggregate collapses all participant carts into finalized lines grouped by
// (product id, sorted ingredient set). Quantities sum within a group; the
// unit price comes from the stored snapshot, never a catalog re-fetch, so
// re-finalization after a price change cannot alter already-quoted totals.
func aggregate(order *models.Order, finalizedAt time.Time) *models.FinalizedOrder {
	type group struct {
		line models.FinalizedLine
	}

	groups := make(map[string]*group)
	keys := make([]string, 0)

	for _, cart := range order.Users {
		for _, line := range cart.Products {
			ingredients := make([]string, len(line.Ingredients))
			copy(ingredients, line.Ingredients)
			sort.Strings(ingredients)

			key := groupKey(line.ProductID, ingredients)
			g, ok := groups[key]
			if !ok {
				g = &group{line: models.FinalizedLine{
					ProductID:    line.ProductID,
					Name:         line.Name,
					PricePerUnit: line.Price,
					ImgURL:       line.ImgURL,
					Ingredients:  ingredients,
				}}
				groups[key] = g
				keys = append(keys, key)
			}
			g.line.Quantity += line.Quantity
		}
	}

	sort.Strings(keys)

	result := &models.FinalizedOrder{
		Products:    make([]models.FinalizedLine, 0, len(keys)),
		FinalizedAt: finalizedAt,
	}
	for _, key := range keys {
		line := groups[key].line
		line.TotalPrice = line.PricePerUnit * float64(line.Quantity)
		result.Products = append(result.Products, line)
		result.TotalPrice += line.TotalPrice
		result.TotalQuantity += line.Quantity
	}
	return result
}
