package service

import (
	"context"
	"errors"

	"github.com/02loveslollipop/MiPedido/internal/repositories"
	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// AuthorizationGateInterface answers whether an authenticated actor controls
// a restaurant. Finalize and fulfill consult it before mutating state;
// create, join and cart edits are deliberately ungated so any holder of the
// shared order link can shape their own lines.
type AuthorizationGateInterface interface {
	Controls(ctx context.Context, actorID, restaurantID string) (bool, error)
}

type AuthorizationGate struct {
	userRepo repositories.UserRepositoryInterface
	logger   *logger.Logger
}

func NewAuthorizationGate(userRepo repositories.UserRepositoryInterface, log *logger.Logger) *AuthorizationGate {
	return &AuthorizationGate{
		userRepo: userRepo,
		logger:   log.WithComponent("authorization_gate"),
	}
}

// Controls reports whether the actor's controls relation includes the
// restaurant. An unknown actor is simply not authorized; storage failures
// propagate so they are never mistaken for a denial.
func (g *AuthorizationGate) Controls(ctx context.Context, actorID, restaurantID string) (bool, error) {
	user, err := g.userRepo.GetByID(ctx, actorID)
	if errors.Is(err, models.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !user.ControlsRestaurant(restaurantID) {
		g.logger.Warn("Actor does not control restaurant",
			"user_id", actorID, "restaurant_id", restaurantID)
		return false, nil
	}
	return true, nil
}
