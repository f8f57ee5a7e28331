// Package cart implements the in-memory shopping cart of the checkout flow.
//
// A cart is not safe for concurrent use; callers must serialize access to
// a single cart instance.
package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/eshop-shipping/internal/domain/product"
)

// ErrNonPositiveAmount is returned when adding a product with an amount <= 0.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// AvailabilityError indicates a requested amount exceeds the product's
// current availability.
type AvailabilityError struct {
	Product   string
	Available int
	Requested int
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("product %s has only %d items, requested %d", e.Product, e.Available, e.Requested)
}

// Line is one cart entry: a product and the requested amount.
type Line struct {
	Product *product.Product
	Amount  int
}

// Cart maps products to requested amounts, keyed by product name and
// preserving insertion order. Submission iterates lines in that order.
type Cart struct {
	lines []Line
	index map[string]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts a product into the cart with the given amount. Adding a product
// already present overwrites its amount (last write wins) and keeps its
// position. The amount must be positive and within the product's current
// availability.
func (c *Cart) Add(p *product.Product, amount int) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if !p.IsAvailable(amount) {
		return &AvailabilityError{
			Product:   p.Name,
			Available: p.Available,
			Requested: amount,
		}
	}

	if i, ok := c.index[p.Name]; ok {
		c.lines[i] = Line{Product: p, Amount: amount}
		return nil
	}
	c.index[p.Name] = len(c.lines)
	c.lines = append(c.lines, Line{Product: p, Amount: amount})
	return nil
}

// Remove deletes the named product from the cart. Removing an absent
// product is a no-op.
func (c *Cart) Remove(name string) {
	i, ok := c.index[name]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, name)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Product.Name] = j
	}
}

// Contains reports whether the named product is in the cart.
func (c *Cart) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of cart lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Total returns the sum of price*amount over all lines. An empty cart
// totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Amount))))
	}
	return total
}

// Submission holds the outcome of a submitted cart: the ordered product
// names for the shipping request, plus enough state to undo the purchase
// if a later checkout step fails.
type Submission struct {
	cart  *Cart
	lines []Line
}

// ProductIDs returns the product names of the submitted lines in cart
// insertion order.
func (s *Submission) ProductIDs() []string {
	ids := make([]string, len(s.lines))
	for i, l := range s.lines {
		ids[i] = l.Product.Name
	}
	return ids
}

// Rollback restores every debited amount and puts the lines back into the
// cart. It is called when shipping creation fails after the cart was
// submitted, so inventory is not lost.
func (s *Submission) Rollback() {
	for _, l := range s.lines {
		l.Product.Restock(l.Amount)
	}
	s.cart.lines = append(s.cart.lines[:0], s.lines...)
	for i, l := range s.lines {
		s.cart.index[l.Product.Name] = i
	}
}

// Submit commits the purchase: every line's product is debited exactly once
// in insertion order and the cart is cleared. The returned Submission can
// roll the whole operation back. If any debit fails, previously debited
// lines are restored and the cart is left unchanged.
func (c *Cart) Submit() (*Submission, error) {
	for i, l := range c.lines {
		if err := l.Product.Buy(l.Amount); err != nil {
			for _, done := range c.lines[:i] {
				done.Product.Restock(done.Amount)
			}
			return nil, errors.Wrapf(err, "submit product %s", l.Product.Name)
		}
	}

	sub := &Submission{
		cart:  c,
		lines: append([]Line(nil), c.lines...),
	}
	c.lines = c.lines[:0]
	clear(c.index)
	return sub, nil
}
