package models

// Restaurant is the catalog record an order is scoped to. Only existence
// matters to the order engine; listing and editing belong to the catalog
// service.
type Restaurant struct {
	ID     string `json:"id" bson:"_id,omitempty"`
	Name   string `json:"name" bson:"name"`
	ImgURL string `json:"img_url" bson:"img_url"`
}
