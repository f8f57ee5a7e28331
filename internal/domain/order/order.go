// Package order converts a submitted shopping cart into a shipment request.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xenking/eshop-shipping/internal/domain/cart"
)

// DefaultDueIn is the due-date offset applied when the caller does not
// provide one.
const DefaultDueIn = 3 * time.Second

// ShippingCreator is the slice of the shipping service an order needs.
type ShippingCreator interface {
	CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, dueDate time.Time) (string, error)
}

// Order ties a cart to the shipping service. The identifier is generated
// once at construction and stays stable for the order's lifetime. An order
// is not persisted beyond the call that places it.
type Order struct {
	ID       string
	cart     *cart.Cart
	shipping ShippingCreator
	now      func() time.Time
}

// New creates an Order over the given cart and shipping service.
func New(c *cart.Cart, shipping ShippingCreator) *Order {
	return &Order{
		ID:       uuid.New().String(),
		cart:     c,
		shipping: shipping,
		now:      time.Now,
	}
}

// PlaceOption customizes order placement.
type PlaceOption func(*placeOptions)

type placeOptions struct {
	dueDate time.Time
}

// WithDueDate sets an explicit shipment due date instead of the default
// now + 3s.
func WithDueDate(due time.Time) PlaceOption {
	return func(o *placeOptions) { o.dueDate = due }
}

// Place submits the cart and creates a shipment for the resulting product
// list, returning the shipping ID. The cart submission is staged: if
// shipping creation fails, the debited inventory and the cart contents are
// restored, and the shipping error is returned unchanged.
func (o *Order) Place(ctx context.Context, shippingType string, opts ...PlaceOption) (string, error) {
	options := placeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.dueDate.IsZero() {
		options.dueDate = o.now().UTC().Add(DefaultDueIn)
	}

	sub, err := o.cart.Submit()
	if err != nil {
		return "", err
	}

	shippingID, err := o.shipping.CreateShipping(ctx, shippingType, sub.ProductIDs(), o.ID, options.dueDate)
	if err != nil {
		sub.Rollback()
		return "", err
	}
	return shippingID, nil
}
