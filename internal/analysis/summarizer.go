// Package analysis produces the human-readable order summaries and receipt
// text. Summarizers are best-effort collaborators: callers must fall back to
// FallbackText on any failure and never let a summarizer error block an
// order.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// FallbackText is stored when the summarizer is unavailable or fails.
const FallbackText = "Thanks for your order! Your food is being prepared and you can follow its status on the order page."

// Snapshot is the order data handed to a summarizer. It is a copy, never a
// live reference.
type Snapshot struct {
	OrderNumber   string        `json:"order_number"`
	CustomerEmail string        `json:"customer_email"`
	Items         []orders.Item `json:"items"`
	Total         float64       `json:"total"`
}

// SnapshotOf builds a Snapshot from a persisted order.
func SnapshotOf(o *orders.Order) Snapshot {
	items := make([]orders.Item, len(o.Items))
	copy(items, o.Items)
	return Snapshot{
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		Total:         o.TotalAmount,
	}
}

// Summarizer turns an order snapshot into display text.
type Summarizer interface {
	Summarize(ctx context.Context, snap Snapshot) (string, error)
}

// LocalSummarizer is the in-process implementation: deterministic text built
// from the snapshot, no external calls.
type LocalSummarizer struct{}

// Summarize renders a short summary of the order lines and total.
func (LocalSummarizer) Summarize(ctx context.Context, snap Snapshot) (string, error) {
	if len(snap.Items) == 0 {
		return "", fmt.Errorf("empty snapshot for order %s", snap.OrderNumber)
	}
	var count int
	names := make([]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		count += it.Quantity
		names = append(names, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return fmt.Sprintf("Order %s: %d item(s): %s. Total $%.2f.",
		snap.OrderNumber, count, strings.Join(names, ", "), snap.Total), nil
}

// ReceiptText renders the printable receipt body for an order.
func ReceiptText(o *orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "KFC ORDER RECEIPT\n")
	fmt.Fprintf(&b, "Order #%s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Placed %s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%-24s x%-3d $%8.2f\n", it.Name, it.Quantity, it.Subtotal())
	}
	fmt.Fprintf(&b, "\nTOTAL%31s$%8.2f\n", "", o.TotalAmount)
	return b.String()
}
