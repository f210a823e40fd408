package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/02loveslollipop/MiPedido/models"
)

// fakeOrderRepo is an in-memory stand-in for the MongoDB order adapter. It
// mimics the adapter contract: field-scoped cart writes and guarded status
// transitions, deep copies on reads so callers never alias stored state.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]*models.Order)}
}

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Users = make(map[string]models.ParticipantCart, len(o.Users))
	for id, cart := range o.Users {
		products := make([]models.CartLine, len(cart.Products))
		copy(products, cart.Products)
		cp.Users[id] = models.ParticipantCart{Products: products}
	}
	return &cp
}

func (r *fakeOrderRepo) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := order.ID
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	stored := copyOrder(order)
	stored.ID = id
	r.orders[id] = stored
	return id, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *fakeOrderRepo) SetParticipantCart(_ context.Context, orderID primitive.ObjectID, participantID string, cart models.ParticipantCart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	products := make([]models.CartLine, len(cart.Products))
	copy(products, cart.Products)
	order.Users[participantID] = models.ParticipantCart{Products: products}
	return nil
}

func (r *fakeOrderRepo) SetStatus(_ context.Context, orderID primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, status := range from {
		if order.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	order.Status = to
	switch to {
	case models.StatusFinalized:
		ts := at
		order.FinalizedAt = &ts
	case models.StatusFulfilled:
		ts := at
		order.FulfilledAt = &ts
	}
	return true, nil
}

func (r *fakeOrderRepo) FindByCounter(_ context.Context, counter uint32) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []primitive.ObjectID
	for id := range r.orders {
		c := uint32(id[10])<<8 | uint32(id[11])
		if c == counter&0xFFFF {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// stored returns the live stored order for invariant checks.
func (r *fakeOrderRepo) stored(id primitive.ObjectID) *models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyOrder(r.orders[id])
}

type fakeRestaurantRepo struct {
	restaurants map[string]*models.Restaurant
}

func newFakeRestaurantRepo(ids ...string) *fakeRestaurantRepo {
	r := &fakeRestaurantRepo{restaurants: make(map[string]*models.Restaurant)}
	for _, id := range ids {
		r.restaurants[id] = &models.Restaurant{ID: id, Name: "Restaurant " + id}
	}
	return r
}

func (r *fakeRestaurantRepo) GetByID(_ context.Context, restaurantID string) (*models.Restaurant, error) {
	restaurant, ok := r.restaurants[restaurantID]
	if !ok {
		return nil, models.ErrRestaurantNotFound
	}
	return restaurant, nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID string) (*models.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	cp := *product
	return &cp, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return user, nil
}

// failingUserRepo simulates an unavailable identity store.
type failingUserRepo struct{}

func (failingUserRepo) GetByID(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("users collection unavailable")
}
