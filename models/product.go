package models

// Product is a catalog item owned by a restaurant. Ingredients is the legal
// ingredient set a cart line may choose from. Active distinguishes withdrawn
// products; legacy records carry no flag and are treated as active.
type Product struct {
	ID           string   `json:"product_id" bson:"_id,omitempty"`
	RestaurantID string   `json:"restaurant_id" bson:"restaurant_id"`
	Name         string   `json:"name" bson:"name"`
	Description  string   `json:"description" bson:"description"`
	Price        float64  `json:"price" bson:"price"`
	ImgURL       string   `json:"img_url" bson:"img_url"`
	Ingredients  []string `json:"ingredients" bson:"ingredients"`
	Active       *bool    `json:"active,omitempty" bson:"active,omitempty"`
}

// IsActive reports whether the product can still be added to carts.
func (p *Product) IsActive() bool {
	return p.Active == nil || *p.Active
}
