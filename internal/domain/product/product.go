package product

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidProduct is returned when a product is constructed with a
// negative price or a negative available amount.
var ErrInvalidProduct = errors.New("price and availability must be non-negative")

// NotFoundError indicates a requested product does not exist in the catalog.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.Name)
}

// InsufficientStockError indicates a purchase requested more units than
// are currently available.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s has only %d items, requested %d", e.Product, e.Available, e.Requested)
}

// Product is a catalog item available for purchase. Identity is the name:
// two Product values with equal names are treated as the same cart line
// regardless of price differences.
type Product struct {
	Name      string
	Price     decimal.Decimal
	Available int
}

// New validates and constructs a Product.
func New(name string, price decimal.Decimal, available int) (*Product, error) {
	if price.IsNegative() || available < 0 {
		return nil, ErrInvalidProduct
	}
	return &Product{
		Name:      name,
		Price:     price,
		Available: available,
	}, nil
}

// IsAvailable reports whether at least amount units are in stock.
func (p *Product) IsAvailable(amount int) bool {
	return p.Available >= amount
}

// Buy debits amount units from the available stock. It refuses to drive
// availability negative and returns an InsufficientStockError instead, so
// callers do not need a separate pre-check.
func (p *Product) Buy(amount int) error {
	if amount > p.Available {
		return &InsufficientStockError{
			Product:   p.Name,
			Available: p.Available,
			Requested: amount,
		}
	}
	p.Available -= amount
	return nil
}

// Restock returns amount units to the available stock. It reverses a
// previous Buy when a later step of the checkout fails.
func (p *Product) Restock(amount int) {
	p.Available += amount
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	// GetByNames fetches the named products preserving argument order.
	// A missing name yields a NotFoundError.
	GetByNames(ctx context.Context, names []string) ([]Product, error)
	SetAvailable(ctx context.Context, name string, available int) error
	Upsert(ctx context.Context, p *Product) error
}
