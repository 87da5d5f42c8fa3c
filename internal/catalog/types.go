package catalog

import "time"

// Menu categories
const (
	CategoryChicken  = "chicken"
	CategoryBurgers  = "burgers"
	CategorySides    = "sides"
	CategoryDrinks   = "drinks"
	CategoryDesserts = "desserts"
)

// Categories lists the valid menu categories in display order.
var Categories = []string{CategoryChicken, CategoryBurgers, CategorySides, CategoryDrinks, CategoryDesserts}

// ValidCategory reports whether c is a known menu category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents the item stored in the products DynamoDB table.
// Stock is mutated by checkout; availability is forced off once stock hits 0.
type Product struct {
	ProductID     string    `dynamodbav:"product_id" json:"product_id"` // PK
	Name          string    `dynamodbav:"name" json:"name"`
	Description   string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Category      string    `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Price         float64   `dynamodbav:"price" json:"price"`
	StockQuantity int       `dynamodbav:"stock_quantity" json:"stock_quantity"`
	IsAvailable   bool      `dynamodbav:"is_available" json:"is_available"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at" json:"updated_at"`
}
