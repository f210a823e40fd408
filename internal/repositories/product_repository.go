package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/02loveslollipop/MiPedido/internal/cache"
	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/database"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// productCacheTTL bounds how stale a cached catalog snapshot may be.
const productCacheTTL = time.Hour

// ProductRepositoryInterface reads the catalog collaborator's product
// records. Catalog writes belong to the catalog service, not here.
type ProductRepositoryInterface interface {
	GetByID(ctx context.Context, productID string) (*models.Product, error)
}

type ProductRepository struct {
	collection *mongo.Collection
	cache      cache.Cache
	logger     *logger.Logger
}

// NewProductRepository creates a ProductRepository over the products
// collection. The cache is optional; pass nil to read straight from the
// database.
func NewProductRepository(log *logger.Logger, db *database.DB, productCache cache.Cache) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
		cache:      productCache,
		logger:     log.WithComponent("product_repository"),
	}
}

// GetByID retrieves a product. Cached copies are used when present; cache
// failures fall through to the database and are never surfaced.
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if cached := r.fromCache(ctx, productID); cached != nil {
		return cached, nil
	}

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		r.logger.Warn("Invalid product id", "product_id", productID)
		return nil, models.ErrProductNotFound
	}

	var doc struct {
		ID           primitive.ObjectID `bson:"_id"`
		RestaurantID string             `bson:"restaurant_id"`
		Name         string             `bson:"name"`
		Description  string             `bson:"description"`
		Price        float64            `bson:"price"`
		ImgURL       string             `bson:"img_url"`
		Ingredients  []string           `bson:"ingredients"`
		Active       *bool              `bson:"active"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		r.logger.Warn("Product not found", "product_id", productID)
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get product", "product_id", productID, "error", err)
		return nil, fmt.Errorf("failed to get product: %v", err)
	}

	product := &models.Product{
		ID:           doc.ID.Hex(),
		RestaurantID: doc.RestaurantID,
		Name:         doc.Name,
		Description:  doc.Description,
		Price:        doc.Price,
		ImgURL:       doc.ImgURL,
		Ingredients:  doc.Ingredients,
		Active:       doc.Active,
	}

	r.toCache(ctx, product)
	return product, nil
}

func (r *ProductRepository) fromCache(ctx context.Context, productID string) *models.Product {
	if r.cache == nil {
		return nil
	}

	value, err := r.cache.Get(ctx, r.cache.GenerateKey("product", productID))
	if err != nil {
		r.logger.Warn("Product cache read failed", "product_id", productID, "error", err)
		return nil
	}
	if value == "" {
		return nil
	}

	var product models.Product
	if err := json.Unmarshal([]byte(value), &product); err != nil {
		r.logger.Warn("Product cache entry is corrupt", "product_id", productID, "error", err)
		return nil
	}

	r.logger.Debug("Product cache hit", "product_id", productID)
	return &product
}

func (r *ProductRepository) toCache(ctx context.Context, product *models.Product) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	key := r.cache.GenerateKey("product", product.ID)
	if err := r.cache.Set(ctx, key, string(data), productCacheTTL); err != nil {
		r.logger.Warn("Product cache write failed", "product_id", product.ID, "error", err)
	}
}
