package cart

import (
	"sort"

	"github.com/kithulovali/kfc-ordering/internal/catalog"
)

// Line is one cart entry: a product snapshot plus the requested quantity.
// A stored line always has Quantity >= 1.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the line's price contribution.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is the per-session product -> quantity mapping. It is a plain value
// type; persistence lives in SessionStore.
type Cart struct {
	Lines map[string]Line `json:"lines"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Lines: map[string]Line{}}
}

// Add grows the product's line by up to qty, capped so the line never exceeds
// the product's stock at add time. The cap is advisory; checkout re-validates
// against live stock. Unavailable or out-of-stock products are ignored, as
// are non-positive quantities.
func (c *Cart) Add(p *catalog.Product, qty int) {
	if p == nil || qty <= 0 {
		return
	}
	if !p.IsAvailable || p.StockQuantity <= 0 {
		return
	}
	current := c.Lines[p.ProductID].Quantity
	maxAddable := p.StockQuantity - current
	if maxAddable <= 0 {
		return
	}
	if qty > maxAddable {
		qty = maxAddable
	}
	line := c.Lines[p.ProductID]
	if line.ProductID == "" {
		line = Line{ProductID: p.ProductID, Name: p.Name, UnitPrice: p.Price}
	}
	line.Quantity += qty
	c.Lines[p.ProductID] = line
}

// SetQuantity sets an existing line's quantity, clamped to [0, stock] when
// stock is known (non-nil). Quantity 0 removes the line. Unknown product IDs
// are ignored.
func (c *Cart) SetQuantity(productID string, qty int, stock *int) {
	if stock != nil && qty > *stock {
		qty = *stock
	}
	if qty <= 0 {
		delete(c.Lines, productID)
		return
	}
	line, ok := c.Lines[productID]
	if !ok {
		return
	}
	line.Quantity = qty
	c.Lines[productID] = line
}

// Total sums unit price times quantity across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Items returns the lines in a stable order for display and checkout.
func (c *Cart) Items() []Line {
	items := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, l)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Lines = map[string]Line{}
}
