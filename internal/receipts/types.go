package receipts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Receipt is the printable record derived from an order, created lazily on
// first view. One receipt per order, enforced by a conditional put on the
// order reference.
type Receipt struct {
	OrderID       string    `dynamodbav:"order_id" json:"order_id"` // PK, one-to-one with the order
	OrderNumber   string    `dynamodbav:"order_number" json:"order_number"`
	ReceiptNumber string    `dynamodbav:"receipt_number" json:"receipt_number"`
	Text          string    `dynamodbav:"text" json:"text"`
	GeneratedAt   time.Time `dynamodbav:"generated_at" json:"generated_at"`
}

// NewReceiptNumber generates a receipt number like "RCPT-9F2C41AB".
func NewReceiptNumber() string {
	return "RCPT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
