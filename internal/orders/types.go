package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ForwardSequence is the path automation drives an order along, in order.
var ForwardSequence = []string{StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal status; automation never
// advances an order past one.
func IsTerminal(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Item is a snapshot of a cart line at checkout time. Orders copy product
// data so later catalog edits never rewrite order history.
type Item struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Name      string  `dynamodbav:"name" json:"name"`
	Price     float64 `dynamodbav:"price" json:"price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
}

// Subtotal returns the line's price contribution.
func (it Item) Subtotal() float64 {
	return it.Price * float64(it.Quantity)
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID             string    `dynamodbav:"order_id" json:"order_id"`         // PK
	OrderNumber         string    `dynamodbav:"order_number" json:"order_number"` // external identifier, GSI
	CustomerEmail       string    `dynamodbav:"customer_email" json:"customer_email"`
	Items               []Item    `dynamodbav:"items" json:"items"`
	TotalAmount         float64   `dynamodbav:"total_amount" json:"total_amount"`
	Status              string    `dynamodbav:"status" json:"status"`
	SpecialInstructions string    `dynamodbav:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	Analysis            string    `dynamodbav:"analysis,omitempty" json:"analysis,omitempty"`
	AutomationStarted   bool      `dynamodbav:"automation_started" json:"automation_started"`
	CreatedAt           time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt           time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// ItemsTotal sums the snapshot line subtotals.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	return total
}

// NewOrderNumber generates a short human-quotable order number.
// Example: "9F2C41AB".
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
