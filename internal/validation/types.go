package validation

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	Phone               string `json:"phone" validate:"required,max=20"`
	Address             string `json:"address,omitempty" validate:"omitempty,max=300"`
	SpecialInstructions string `json:"special_instructions,omitempty" validate:"omitempty,max=500"`
}

// AddToCartRequest is the payload for POST /cart/items/:productID.
// A zero quantity defaults to 1.
type AddToCartRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateCartRequest is the payload for PUT /cart: product id -> new quantity.
// Zero removes the line; values are clamped to live stock server-side.
type UpdateCartRequest struct {
	Quantities map[string]int `json:"quantities" validate:"required,min=1"`
}

// ProductUpsertRequest is the staff payload for creating/updating a product.
type ProductUpsertRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Category      string  `json:"category" validate:"required,oneof=chicken burgers sides drinks desserts"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	IsAvailable   bool    `json:"is_available"`
}

// StatusOverrideRequest is the staff payload for forcing an order status.
type StatusOverrideRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
}
