package service

import (
	"context"

	"github.com/02loveslollipop/MiPedido/internal/repositories"
	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// CatalogValidatorInterface confirms that a requested product and ingredient
// subset are legal for a restaurant and returns the catalog snapshot the
// cart line will copy. It is the engine's only view of the catalog.
type CatalogValidatorInterface interface {
	ValidateProduct(ctx context.Context, restaurantID, productID string, ingredients []string) (*models.Product, error)
}

type CatalogValidator struct {
	productRepo repositories.ProductRepositoryInterface
	logger      *logger.Logger
}

func NewCatalogValidator(productRepo repositories.ProductRepositoryInterface, log *logger.Logger) *CatalogValidator {
	return &CatalogValidator{
		productRepo: productRepo,
		logger:      log.WithComponent("catalog_validator"),
	}
}

// ValidateProduct fetches the product and checks that it belongs to the
// restaurant, is still active, and offers every requested ingredient.
// Withdrawn products are reported as not found so carts cannot reference a
// product the restaurant no longer sells.
func (v *CatalogValidator) ValidateProduct(ctx context.Context, restaurantID, productID string, ingredients []string) (*models.Product, error) {
	product, err := v.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.RestaurantID != restaurantID {
		v.logger.Warn("Product belongs to a different restaurant",
			"product_id", productID, "restaurant_id", restaurantID)
		return nil, models.ErrProductNotFound
	}

	if !product.IsActive() {
		v.logger.Warn("Product is no longer active", "product_id", productID)
		return nil, models.ErrProductNotFound
	}

	legal := make(map[string]bool, len(product.Ingredients))
	for _, ing := range product.Ingredients {
		legal[ing] = true
	}
	for _, ing := range ingredients {
		if !legal[ing] {
			v.logger.Warn("Requested ingredient is not offered for product",
				"product_id", productID, "ingredient", ing)
			return nil, models.ErrInvalidIngredient
		}
	}

	return product, nil
}
