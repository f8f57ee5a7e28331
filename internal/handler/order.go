package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/eshop-shipping/internal/domain/cart"
	"github.com/xenking/eshop-shipping/internal/domain/order"
	"github.com/xenking/eshop-shipping/internal/domain/product"
	"github.com/xenking/eshop-shipping/internal/domain/shipping"
)

type orderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type orderRequest struct {
	Items        []orderItemRequest `json:"items"`
	ShippingType string             `json:"shippingType"`
	// DueDate is optional RFC 3339; defaults to now + 3s.
	DueDate string `json:"dueDate,omitempty"`
}

type orderResponse struct {
	OrderID    string   `json:"orderId"`
	ShippingID string   `json:"shippingId"`
	Total      float64  `json:"total"`
	Products   []string `json:"products"`
}

// PlaceOrder builds a cart from the catalog, places the order, and persists
// the debited availabilities once the shipment is created.
//
// Availability is read, debited in memory, and written back without a
// cross-request lock; concurrent orders for the same product may observe
// stale stock. The cart contract is single-owner (callers serialize access),
// and the catalog write-back keeps that simplification.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, http.StatusBadRequest, "items required")
		return
	}

	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "dueDate must be RFC 3339")
			return
		}
		dueDate = parsed.UTC()
	}

	ctx := r.Context()

	names := make([]string, len(req.Items))
	for i, item := range req.Items {
		names[i] = item.Product
	}
	products, err := h.products.GetByNames(ctx, names)
	if err != nil {
		var nfErr *product.NotFoundError
		if errors.As(err, &nfErr) {
			writeError(w, r, http.StatusBadRequest, nfErr.Error())
			return
		}
		h.serverError(w, r, errors.Wrap(err, "get products"))
		return
	}

	c := cart.New()
	for i, item := range req.Items {
		if err := c.Add(&products[i], item.Quantity); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	total := c.Total()

	o := order.New(c, h.shipping)

	var opts []order.PlaceOption
	if !dueDate.IsZero() {
		opts = append(opts, order.WithDueDate(dueDate))
	}

	shippingID, err := o.Place(ctx, req.ShippingType, opts...)
	if err != nil {
		if errors.Is(err, shipping.ErrTypeNotAvailable) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		var stockErr *product.InsufficientStockError
		if errors.As(err, &stockErr) {
			writeError(w, r, http.StatusUnprocessableEntity, stockErr.Error())
			return
		}
		h.serverError(w, r, errors.Wrap(err, "place order"))
		return
	}

	// The shipment record exists; persist the debited stock.
	for i := range products {
		if err := h.products.SetAvailable(ctx, products[i].Name, products[i].Available); err != nil {
			h.serverError(w, r, errors.Wrapf(err, "persist availability of %q", products[i].Name))
			return
		}
	}

	writeJSON(w, r, http.StatusOK, orderResponse{
		OrderID:    o.ID,
		ShippingID: shippingID,
		Total:      total.InexactFloat64(),
		Products:   names,
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
