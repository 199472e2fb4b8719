package cart

import (
	"github.com/trinibuild/storefront/internal/domain/money"
	"github.com/trinibuild/storefront/internal/domain/product"
)

// Line is one quantity-bearing cart entry. The cart holds at most one
// line per product; repeated adds bump the quantity instead.
type Line struct {
	ProductID string
	Name      string
	UnitPrice money.Cents
	Quantity  int64
}

func (l Line) LineTotal() money.Cents {
	return l.UnitPrice * money.Cents(l.Quantity)
}

// Cart aggregates the lines of one checkout session. It is not safe for
// concurrent use; the owning session serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p into the cart. The stock ceiling is advisory:
// it reflects stock as read at add-time and is not re-checked at
// submission. On ErrInsufficientStock the cart is left unchanged.
func (c *Cart) Add(p *product.Product) error {
	for i, line := range c.lines {
		if line.ProductID == p.ID {
			if line.Quantity+1 > p.Stock {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity++
			return nil
		}
	}
	if p.Stock < 1 {
		return ErrInsufficientStock
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  1,
	})
	return nil
}

// Remove decrements the line for productID by delta. A line whose
// quantity reaches zero or below is deleted entirely, so the cart never
// holds a line with quantity < 1. Unknown products are a no-op.
func (c *Cart) Remove(productID string, delta int64) {
	if delta <= 0 {
		return
	}
	for i, line := range c.lines {
		if line.ProductID != productID {
			continue
		}
		if line.Quantity-delta <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity -= delta
		}
		return
	}
}

// Total is the literal sum of unit price times quantity over all lines.
func (c *Cart) Total() money.Cents {
	var sum money.Cents
	for _, line := range c.lines {
		sum += line.LineTotal()
	}
	return sum
}

// Quantity reports how many units of productID are in the cart.
func (c *Cart) Quantity(productID string) int64 {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
