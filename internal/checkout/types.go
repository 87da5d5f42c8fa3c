package checkout

import (
	"errors"
	"fmt"
	"strings"
)

// Form carries the caller-supplied checkout fields after validation.
type Form struct {
	Phone               string
	Address             string
	SpecialInstructions string
}

// InsufficientLine describes one cart entry that cannot be fulfilled.
type InsufficientLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	NotFound  bool   `json:"not_found,omitempty"`
}

func (l InsufficientLine) String() string {
	if l.NotFound {
		return fmt.Sprintf("product not found: %s", l.Name)
	}
	return fmt.Sprintf("not enough stock for %s (have %d, need %d)", l.Name, l.Available, l.Requested)
}

// InsufficientStockError reports every failing line of a checkout attempt.
// No mutation has happened when it is returned.
type InsufficientStockError struct {
	Lines []InsufficientLine
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "; ")
}

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")
