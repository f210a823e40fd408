package models

// User is a restaurant operator account. Controls lists the restaurant ids
// this operator may finalize and fulfill orders for. Credential material is
// handled by the identity service; the order engine only reads the controls
// relation.
type User struct {
	ID       string   `json:"id" bson:"_id,omitempty"`
	Username string   `json:"username" bson:"username"`
	Controls []string `json:"controls" bson:"controls"`
}

// ControlsRestaurant reports whether the operator controls the restaurant.
func (u *User) ControlsRestaurant(restaurantID string) bool {
	for _, id := range u.Controls {
		if id == restaurantID {
			return true
		}
	}
	return false
}
