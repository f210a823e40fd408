package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

const (
	testRestaurantID  = "64b0000000000000000000aa"
	otherRestaurantID = "64b0000000000000000000bb"
	burgerID          = "64b0000000000000000000c1"
	pizzaID           = "64b0000000000000000000c2"
	retiredID         = "64b0000000000000000000c3"
	operatorID        = "64b0000000000000000000d1"
	strangerID        = "64b0000000000000000000d2"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

func boolPtr(b bool) *bool { return &b }

type testEnv struct {
	service   *OrderService
	orderRepo *fakeOrderRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := []*models.Product{
		{
			ID: burgerID, RestaurantID: testRestaurantID,
			Name: "Test Burger", Price: 4.5, ImgURL: "https://img.test/burger.png",
			Ingredients: []string{"cheese", "lettuce", "beef patty"},
		},
		{
			ID: pizzaID, RestaurantID: testRestaurantID,
			Name: "Test Pizza", Price: 8.0, ImgURL: "https://img.test/pizza.png",
			Ingredients: []string{"dough", "tomato sauce", "mozzarella"},
		},
		{
			ID: retiredID, RestaurantID: testRestaurantID,
			Name: "Retired Special", Price: 9.9, ImgURL: "https://img.test/retired.png",
			Ingredients: []string{"cheese"},
			Active:      boolPtr(false),
		},
	}

	log := testLogger()
	orderRepo := newFakeOrderRepo()
	restaurantRepo := newFakeRestaurantRepo(testRestaurantID, otherRestaurantID)
	productRepo := newFakeProductRepo(products...)
	userRepo := newFakeUserRepo(
		&models.User{ID: operatorID, Username: "operator", Controls: []string{testRestaurantID}},
		&models.User{ID: strangerID, Username: "stranger", Controls: []string{otherRestaurantID}},
	)

	svc := NewOrderService(
		orderRepo,
		restaurantRepo,
		NewCatalogValidator(productRepo, log),
		NewAuthorizationGate(userRepo, log),
		log,
	)

	return &testEnv{service: svc, orderRepo: orderRepo}
}

func (e *testEnv) createOrder(t *testing.T) (orderID, participantID string) {
	t.Helper()
	orderID, participantID, err := e.service.CreateOrder(context.Background(), testRestaurantID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return orderID, participantID
}

func (e *testEnv) modify(t *testing.T, orderID, participantID, productID string, quantity int, ingredients []string) models.ModifyResult {
	t.Helper()
	result, err := e.service.ModifyCart(context.Background(), orderID, participantID, ModifyCartRequest{
		ProductID:   productID,
		Quantity:    quantity,
		Ingredients: ingredients,
	})
	if err != nil {
		t.Fatalf("ModifyCart(%s, qty=%d): %v", productID, quantity, err)
	}
	return result
}

func TestCreateOrderSeedsOneParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, participantID := env.createOrder(t)

	cart, err := env.service.GetParticipantCart(ctx, orderID, participantID)
	if err != nil {
		t.Fatalf("GetParticipantCart: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("fresh participant cart has %d lines, want 0", len(cart))
	}

	oid, _ := parseOrderID(orderID)
	stored := env.orderRepo.stored(oid)
	if stored.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", stored.Status)
	}
	if len(stored.Users) != 1 {
		t.Errorf("participants = %d, want exactly 1", len(stored.Users))
	}
	if stored.RestaurantID != testRestaurantID {
		t.Errorf("restaurant_id = %q", stored.RestaurantID)
	}
}

func TestCreateOrderUnknownRestaurant(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.service.CreateOrder(context.Background(), "64b0000000000000000000ff")
	if !errors.Is(err, models.ErrRestaurantNotFound) {
		t.Errorf("err = %v, want ErrRestaurantNotFound", err)
	}
}

func TestJoinOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)

	p2, err := env.service.JoinOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("JoinOrder: %v", err)
	}
	if p2 == p1 {
		t.Error("join returned the creator's participant id")
	}

	oid, _ := parseOrderID(orderID)
	stored := env.orderRepo.stored(oid)
	if len(stored.Users) != 2 {
		t.Errorf("participants = %d, want 2", len(stored.Users))
	}
}

func TestJoinUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.service.JoinOrder(context.Background(), "64b0000000000000000000ee"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
	if _, err := env.service.JoinOrder(context.Background(), "not-an-object-id"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound for malformed id", err)
	}
}

func TestJoinAfterFinalizeAndFulfill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})

	if _, err := env.service.FinalizeOrder(ctx, orderID, operatorID); err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}

	// Joining never blocks on status and never mutates it.
	if _, err := env.service.JoinOrder(ctx, orderID); err != nil {
		t.Fatalf("JoinOrder on finalized order: %v", err)
	}
	oid, _ := parseOrderID(orderID)
	if got := env.orderRepo.stored(oid).Status; got != models.StatusFinalized {
		t.Errorf("status after join = %q, want finalized", got)
	}

	if _, err := env.service.FulfillOrder(ctx, orderID, operatorID); err != nil {
		t.Fatalf("FulfillOrder: %v", err)
	}
	if _, err := env.service.JoinOrder(ctx, orderID); err != nil {
		t.Fatalf("JoinOrder on fulfilled order: %v", err)
	}
	if got := env.orderRepo.stored(oid).Status; got != models.StatusFulfilled {
		t.Errorf("status after join = %q, want fulfilled", got)
	}
}

func TestModifyCartCreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)

	if got := env.modify(t, orderID, p1, burgerID, 2, []string{"cheese"}); got != models.ModifyCreated {
		t.Errorf("first modify = %q, want Created", got)
	}
	if got := env.modify(t, orderID, p1, burgerID, 3, []string{"lettuce"}); got != models.ModifyUpdated {
		t.Errorf("second modify = %q, want Updated", got)
	}

	// Overwrite, not merge: exactly one line carrying the second call's
	// snapshot.
	cart, err := env.service.GetParticipantCart(ctx, orderID, p1)
	if err != nil {
		t.Fatalf("GetParticipantCart: %v", err)
	}
	if len(cart) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(cart))
	}
	line := cart[0]
	if line.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", line.Quantity)
	}
	if len(line.Ingredients) != 1 || line.Ingredients[0] != "lettuce" {
		t.Errorf("ingredients = %v, want [lettuce]", line.Ingredients)
	}
	if line.Name != "Test Burger" || line.Price != 4.5 {
		t.Errorf("snapshot = (%q, %v), want (Test Burger, 4.5)", line.Name, line.Price)
	}

	if got := env.modify(t, orderID, p1, burgerID, 0, nil); got != models.ModifyDeleted {
		t.Errorf("delete modify = %q, want Deleted", got)
	}
	cart, _ = env.service.GetParticipantCart(ctx, orderID, p1)
	if len(cart) != 0 {
		t.Errorf("cart has %d lines after delete, want 0", len(cart))
	}
}

func TestModifyCartZeroQuantityIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)

	// Removing a line that was never added succeeds and persists nothing.
	if got := env.modify(t, orderID, p1, burgerID, 0, nil); got != models.ModifyDeleted {
		t.Errorf("modify = %q, want Deleted", got)
	}

	cart, err := env.service.GetParticipantCart(ctx, orderID, p1)
	if err != nil {
		t.Fatalf("GetParticipantCart: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart has %d lines, want 0", len(cart))
	}
}

func TestModifyCartRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)

	cases := []struct {
		name          string
		orderID       string
		participantID string
		req           ModifyCartRequest
		want          error
	}{
		{
			"negative quantity", orderID, p1,
			ModifyCartRequest{ProductID: burgerID, Quantity: -1},
			models.ErrInvalidQuantity,
		},
		{
			"unknown order", "64b0000000000000000000ee", p1,
			ModifyCartRequest{ProductID: burgerID, Quantity: 1},
			models.ErrOrderNotFound,
		},
		{
			"unknown participant", orderID, "64b0000000000000000000ef",
			ModifyCartRequest{ProductID: burgerID, Quantity: 1},
			models.ErrParticipantNotFound,
		},
		{
			"unknown product", orderID, p1,
			ModifyCartRequest{ProductID: "64b0000000000000000000c9", Quantity: 1},
			models.ErrProductNotFound,
		},
		{
			"withdrawn product", orderID, p1,
			ModifyCartRequest{ProductID: retiredID, Quantity: 1, Ingredients: []string{"cheese"}},
			models.ErrProductNotFound,
		},
		{
			"illegal ingredient", orderID, p1,
			ModifyCartRequest{ProductID: burgerID, Quantity: 1, Ingredients: []string{"cheese", "anchovies"}},
			models.ErrInvalidIngredient,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.ModifyCart(ctx, tc.orderID, tc.participantID, tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// No rejection may have persisted a line.
	cart, _ := env.service.GetParticipantCart(ctx, orderID, p1)
	if len(cart) != 0 {
		t.Errorf("cart has %d lines after rejected mutations, want 0", len(cart))
	}
}

func TestModifyCartRejectsCrossRestaurantProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// An order against the other restaurant must not accept this
	// restaurant's products.
	orderID, p1, err := env.service.CreateOrder(ctx, otherRestaurantID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	_, err = env.service.ModifyCart(ctx, orderID, p1, ModifyCartRequest{ProductID: burgerID, Quantity: 1})
	if !errors.Is(err, models.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestFinalizeAggregatesAcrossParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	p2, err := env.service.JoinOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("JoinOrder: %v", err)
	}

	// Same product, same ingredient set (order within the set must not
	// matter): one aggregated line.
	env.modify(t, orderID, p1, burgerID, 2, []string{"cheese", "lettuce"})
	env.modify(t, orderID, p2, burgerID, 1, []string{"lettuce", "cheese"})

	result, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	if len(result.Products) != 1 {
		t.Fatalf("finalized lines = %d, want 1", len(result.Products))
	}
	line := result.Products[0]
	if line.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", line.Quantity)
	}
	if line.TotalPrice != 4.5*3 {
		t.Errorf("line total = %v, want %v", line.TotalPrice, 4.5*3)
	}
	if result.TotalQuantity != 3 {
		t.Errorf("total quantity = %d, want 3", result.TotalQuantity)
	}
	if result.TotalPrice != 4.5*3 {
		t.Errorf("total price = %v, want %v", result.TotalPrice, 4.5*3)
	}
}

func TestFinalizeKeepsDifferingIngredientSetsApart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	p2, err := env.service.JoinOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("JoinOrder: %v", err)
	}

	env.modify(t, orderID, p1, burgerID, 2, []string{"cheese"})
	env.modify(t, orderID, p2, burgerID, 1, []string{"lettuce"})
	env.modify(t, orderID, p2, pizzaID, 1, []string{"dough"})

	result, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	if len(result.Products) != 3 {
		t.Fatalf("finalized lines = %d, want 3", len(result.Products))
	}
	if result.TotalQuantity != 4 {
		t.Errorf("total quantity = %d, want 4", result.TotalQuantity)
	}
	want := 4.5*2 + 4.5*1 + 8.0*1
	if result.TotalPrice != want {
		t.Errorf("total price = %v, want %v", result.TotalPrice, want)
	}
}

func TestFinalizeGroupingIsSeparatorSafe(t *testing.T) {
	log := testLogger()
	orderRepo := newFakeOrderRepo()
	productRepo := newFakeProductRepo(&models.Product{
		ID: "64b0000000000000000000c7", RestaurantID: testRestaurantID,
		Name: "Combo Plate", Price: 4.5,
		// The last name contains the character a naive joined key would use
		// as its separator.
		Ingredients: []string{"a", "b", "a|b"},
	})
	userRepo := newFakeUserRepo(&models.User{ID: operatorID, Username: "operator", Controls: []string{testRestaurantID}})
	svc := NewOrderService(
		orderRepo,
		newFakeRestaurantRepo(testRestaurantID),
		NewCatalogValidator(productRepo, log),
		NewAuthorizationGate(userRepo, log),
		log,
	)
	ctx := context.Background()

	orderID, p1, err := svc.CreateOrder(ctx, testRestaurantID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	p2, err := svc.JoinOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("JoinOrder: %v", err)
	}

	// {"a","b"} and {"a|b"} are distinct ingredient sets and must stay
	// distinct lines.
	if _, err := svc.ModifyCart(ctx, orderID, p1, ModifyCartRequest{
		ProductID: "64b0000000000000000000c7", Quantity: 1, Ingredients: []string{"a", "b"},
	}); err != nil {
		t.Fatalf("ModifyCart p1: %v", err)
	}
	if _, err := svc.ModifyCart(ctx, orderID, p2, ModifyCartRequest{
		ProductID: "64b0000000000000000000c7", Quantity: 2, Ingredients: []string{"a|b"},
	}); err != nil {
		t.Fatalf("ModifyCart p2: %v", err)
	}

	result, err := svc.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("finalized lines = %d, want 2 (%+v)", len(result.Products), result.Products)
	}
	quantities := map[int][]string{}
	for _, line := range result.Products {
		quantities[line.Quantity] = line.Ingredients
	}
	if got := quantities[1]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("qty-1 line ingredients = %v, want [a b]", got)
	}
	if got := quantities[2]; len(got) != 1 || got[0] != "a|b" {
		t.Errorf("qty-2 line ingredients = %v, want [a|b]", got)
	}
	if result.TotalQuantity != 3 {
		t.Errorf("total quantity = %d, want 3", result.TotalQuantity)
	}
}

func TestFinalizeUsesStoredSnapshotPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 2, []string{"cheese"})

	// A later catalog price change must not alter already-captured lines.
	oid, _ := parseOrderID(orderID)
	stored := env.orderRepo.stored(oid)
	if got := stored.Users[p1].Products[0].Price; got != 4.5 {
		t.Fatalf("snapshot price = %v, want 4.5", got)
	}

	result, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	if result.TotalPrice != 9.0 {
		t.Errorf("total price = %v, want 9.0", result.TotalPrice)
	}
}

func TestFinalizeAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})

	// An operator of a different restaurant is rejected without mutating
	// state.
	if _, err := env.service.FinalizeOrder(ctx, orderID, strangerID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("stranger finalize err = %v, want ErrUnauthorized", err)
	}
	if _, err := env.service.FinalizeOrder(ctx, orderID, "64b0000000000000000000d9"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("unknown actor finalize err = %v, want ErrUnauthorized", err)
	}

	oid, _ := parseOrderID(orderID)
	if got := env.orderRepo.stored(oid).Status; got != models.StatusOpen {
		t.Errorf("status after rejected finalize = %q, want open", got)
	}
}

func TestAuthorizationGatePropagatesStorageFailure(t *testing.T) {
	log := testLogger()
	gate := NewAuthorizationGate(failingUserRepo{}, log)

	_, err := gate.Controls(context.Background(), operatorID, testRestaurantID)
	if err == nil {
		t.Fatal("expected storage failure to propagate")
	}
	if errors.Is(err, models.ErrUnauthorized) {
		t.Error("storage failure was mapped to ErrUnauthorized")
	}
}

func TestRefinalizeReaggregatesAndRestamps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.service.now = func() time.Time { return t0 }

	first, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("first FinalizeOrder: %v", err)
	}
	if first.TotalQuantity != 1 {
		t.Errorf("first total quantity = %d, want 1", first.TotalQuantity)
	}

	// Participants may keep editing after finalize; re-finalization picks
	// up the live carts and refreshes the timestamp.
	env.modify(t, orderID, p1, burgerID, 5, []string{"cheese"})

	t1 := t0.Add(10 * time.Minute)
	env.service.now = func() time.Time { return t1 }

	second, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("second FinalizeOrder: %v", err)
	}
	if second.TotalQuantity != 5 {
		t.Errorf("second total quantity = %d, want 5", second.TotalQuantity)
	}
	if !second.FinalizedAt.After(first.FinalizedAt) {
		t.Errorf("finalized_at not refreshed: %v -> %v", first.FinalizedAt, second.FinalizedAt)
	}

	oid, _ := parseOrderID(orderID)
	stored := env.orderRepo.stored(oid)
	if stored.Status != models.StatusFinalized {
		t.Errorf("status = %q, want finalized", stored.Status)
	}
	if stored.FinalizedAt == nil || !stored.FinalizedAt.Equal(t1) {
		t.Errorf("stored finalized_at = %v, want %v", stored.FinalizedAt, t1)
	}
}

func TestFulfillRequiresFinalize(t *testing.T) {
	env := newTestEnv(t)

	orderID, _ := env.createOrder(t)

	_, err := env.service.FulfillOrder(context.Background(), orderID, operatorID)
	if !errors.Is(err, models.ErrOrderNotFinalized) {
		t.Errorf("err = %v, want ErrOrderNotFinalized", err)
	}
}

func TestFulfillExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})

	if _, err := env.service.FinalizeOrder(ctx, orderID, operatorID); err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}

	first, err := env.service.FulfillOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("first FulfillOrder: %v", err)
	}

	if _, err := env.service.FulfillOrder(ctx, orderID, operatorID); !errors.Is(err, models.ErrOrderFulfilled) {
		t.Errorf("second fulfill err = %v, want ErrOrderFulfilled", err)
	}

	// The terminal timestamp is never re-stamped.
	oid, _ := parseOrderID(orderID)
	stored := env.orderRepo.stored(oid)
	if stored.FulfilledAt == nil || !stored.FulfilledAt.Equal(first) {
		t.Errorf("stored fulfilled_at = %v, want %v", stored.FulfilledAt, first)
	}

	// Fulfilled is absorbing: finalize is rejected too.
	if _, err := env.service.FinalizeOrder(ctx, orderID, operatorID); !errors.Is(err, models.ErrOrderFulfilled) {
		t.Errorf("finalize after fulfill err = %v, want ErrOrderFulfilled", err)
	}
}

func TestFulfillAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})
	if _, err := env.service.FinalizeOrder(ctx, orderID, operatorID); err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}

	if _, err := env.service.FulfillOrder(ctx, orderID, strangerID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("stranger fulfill err = %v, want ErrUnauthorized", err)
	}

	oid, _ := parseOrderID(orderID)
	if got := env.orderRepo.stored(oid).Status; got != models.StatusFinalized {
		t.Errorf("status after rejected fulfill = %q, want finalized", got)
	}
}

func TestStatusNeverMovesBackward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)
	env.modify(t, orderID, p1, burgerID, 1, []string{"cheese"})
	oid, _ := parseOrderID(orderID)

	rank := env.orderRepo.stored(oid).Status.Rank()
	check := func(step string) {
		t.Helper()
		got := env.orderRepo.stored(oid).Status.Rank()
		if got < rank {
			t.Errorf("%s: status rank went backward (%d -> %d)", step, rank, got)
		}
		rank = got
	}

	_, _ = env.service.FulfillOrder(ctx, orderID, operatorID) // rejected: not finalized
	check("fulfill on open")
	_, _ = env.service.FinalizeOrder(ctx, orderID, operatorID)
	check("finalize")
	_, _ = env.service.JoinOrder(ctx, orderID)
	check("join")
	_, _ = env.service.FinalizeOrder(ctx, orderID, operatorID)
	check("re-finalize")
	_, _ = env.service.FulfillOrder(ctx, orderID, operatorID)
	check("fulfill")
	_, _ = env.service.FinalizeOrder(ctx, orderID, operatorID) // rejected: fulfilled
	check("finalize on fulfilled")
	_, _ = env.service.FulfillOrder(ctx, orderID, operatorID) // rejected: already fulfilled
	check("repeat fulfill")
}

func TestGetParticipantCartRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, _ := env.createOrder(t)

	if _, err := env.service.GetParticipantCart(ctx, "64b0000000000000000000ee", "any"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("unknown order err = %v, want ErrOrderNotFound", err)
	}
	if _, err := env.service.GetParticipantCart(ctx, orderID, "64b0000000000000000000ef"); !errors.Is(err, models.ErrParticipantNotFound) {
		t.Errorf("unknown participant err = %v, want ErrParticipantNotFound", err)
	}
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orderID, p1 := env.createOrder(t)

	p2, err := env.service.JoinOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("JoinOrder: %v", err)
	}

	if got := env.modify(t, orderID, p1, burgerID, 2, []string{"cheese"}); got != models.ModifyCreated {
		t.Errorf("p1 modify = %q, want Created", got)
	}
	if got := env.modify(t, orderID, p2, burgerID, 1, []string{"cheese"}); got != models.ModifyCreated {
		t.Errorf("p2 modify = %q, want Created", got)
	}

	result, err := env.service.FinalizeOrder(ctx, orderID, operatorID)
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	if len(result.Products) != 1 || result.Products[0].Quantity != 3 {
		t.Fatalf("finalized = %+v, want one burger line with quantity 3", result.Products)
	}

	if _, err := env.service.FulfillOrder(ctx, orderID, operatorID); err != nil {
		t.Fatalf("FulfillOrder: %v", err)
	}
	if _, err := env.service.FulfillOrder(ctx, orderID, operatorID); !errors.Is(err, models.ErrOrderFulfilled) {
		t.Errorf("retry fulfill err = %v, want ErrOrderFulfilled", err)
	}
}
