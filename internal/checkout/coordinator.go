// Package checkout turns a validated cart into a persisted order: it
// reconciles the customer identity, validates stock all-or-nothing, commits
// the decrements best-effort, creates the order and hands it to automation.
package checkout

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/kithulovali/kfc-ordering/internal/analysis"
	"github.com/kithulovali/kfc-ordering/internal/cart"
	"github.com/kithulovali/kfc-ordering/internal/catalog"
	"github.com/kithulovali/kfc-ordering/internal/customers"
	"github.com/kithulovali/kfc-ordering/internal/metrics"
	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// Activator starts order automation. *automation.Engine satisfies it.
type Activator interface {
	Activate(ctx context.Context, o *orders.Order) error
}

// EventPublisher emits order-placed events. *aws.Publisher satisfies it.
type EventPublisher interface {
	SendOrderPlaced(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Coordinator wires the stores and collaborators checkout needs. engine,
// events and emitter may be nil; automation, eventing and metrics are
// enhancements, not checkout preconditions.
type Coordinator struct {
	products   *catalog.Store
	customers  *customers.Store
	orders     *orders.Store
	summarizer analysis.Summarizer
	engine     Activator
	events     EventPublisher
	emitter    *metrics.Emitter
}

// NewCoordinator assembles a Coordinator.
func NewCoordinator(
	products *catalog.Store,
	custs *customers.Store,
	ords *orders.Store,
	summarizer analysis.Summarizer,
	engine Activator,
	events EventPublisher,
	emitter *metrics.Emitter,
) *Coordinator {
	return &Coordinator{
		products:   products,
		customers:  custs,
		orders:     ords,
		summarizer: summarizer,
		engine:     engine,
		events:     events,
		emitter:    emitter,
	}
}

type commitLine struct {
	product *catalog.Product
	qty     int
}

// Checkout runs the full checkout flow for the cart under the given
// identity. On success the order is persisted, automation is activated and
// the cart is cleared. On *InsufficientStockError nothing has been mutated
// except the reconciled customer record.
func (co *Coordinator) Checkout(ctx context.Context, crt *cart.Cart, id customers.Identity, form Form) (*orders.Order, error) {
	if crt == nil || crt.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// checkout cannot proceed without a persisted identity
	cust, err := co.customers.Reconcile(ctx, id, form.Phone, form.Address)
	if err != nil {
		return nil, err
	}

	lines := crt.Items()

	// validation pass, read-only: all-or-nothing
	var insufficient []InsufficientLine
	var commits []commitLine
	for _, l := range lines {
		p, err := co.products.Get(ctx, l.ProductID)
		if err != nil || p == nil {
			insufficient = append(insufficient, InsufficientLine{
				ProductID: l.ProductID,
				Name:      l.Name,
				Requested: l.Quantity,
				NotFound:  true,
			})
			continue
		}
		if p.StockQuantity < l.Quantity {
			insufficient = append(insufficient, InsufficientLine{
				ProductID: l.ProductID,
				Name:      p.Name,
				Requested: l.Quantity,
				Available: p.StockQuantity,
			})
			continue
		}
		commits = append(commits, commitLine{product: p, qty: l.Quantity})
	}
	if len(insufficient) > 0 {
		co.emitter.Count(ctx, "CheckoutRejected", 1, nil)
		return nil, &InsufficientStockError{Lines: insufficient}
	}

	// commit pass, best-effort per product: validation already decided this
	// checkout is valid, so individual save failures are logged and skipped
	for _, cm := range commits {
		cm.product.StockQuantity -= cm.qty
		if err := co.products.Save(ctx, cm.product); err != nil {
			log.Printf("[checkout] stock update failed for product %s: %v", cm.product.ProductID, err)
		}
	}

	items := make([]orders.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, orders.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	order := &orders.Order{
		OrderID:             uuid.NewString(),
		OrderNumber:         orders.NewOrderNumber(),
		CustomerEmail:       cust.Email,
		Items:               items,
		TotalAmount:         crt.Total(),
		Status:              orders.StatusPending,
		SpecialInstructions: form.SpecialInstructions,
	}
	if err := co.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// analysis hook is best-effort; failures fall back to fixed text
	text, err := co.summarizer.Summarize(ctx, analysis.SnapshotOf(order))
	if err != nil || text == "" {
		text = analysis.FallbackText
	}
	if err := co.orders.SetAnalysis(ctx, order.OrderID, text); err != nil {
		log.Printf("[checkout] analysis save failed for order %s: %v", order.OrderNumber, err)
	}
	order.Analysis = text

	co.publishOrderPlaced(ctx, order)

	// automation is an enhancement, not a checkout precondition
	if co.engine != nil {
		if err := co.engine.Activate(ctx, order); err != nil {
			log.Printf("[checkout] automation activation failed for order %s: %v", order.OrderNumber, err)
		}
	}

	co.emitter.Count(ctx, "CheckoutCompleted", 1, nil)
	crt.Clear()
	return order, nil
}

func (co *Coordinator) publishOrderPlaced(ctx context.Context, o *orders.Order) {
	if co.events == nil {
		return
	}
	// the analyzer re-fetches the order by id, so the event carries
	// identifiers only
	body, err := json.Marshal(map[string]string{
		"order_id":     o.OrderID,
		"order_number": o.OrderNumber,
	})
	if err != nil {
		log.Printf("[checkout] marshal order event: %v", err)
		return
	}
	attrs := map[string]string{
		"order_number": o.OrderNumber,
	}
	if err := co.events.SendOrderPlaced(ctx, string(body), attrs); err != nil {
		log.Printf("[checkout] publish order event failed for %s: %v", o.OrderNumber, err)
	}
}
