// Package handler exposes the checkout flow over a JSON HTTP API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/eshop-shipping/internal/domain/product"
	"github.com/xenking/eshop-shipping/internal/domain/shipping"
)

// Handler serves the product catalog, order placement, and shipment status
// endpoints, delegating business logic to the domain packages.
type Handler struct {
	products product.Repository
	shipping *shipping.Service
}

// New constructs a Handler with the required domain dependencies.
func New(products product.Repository, shippingSvc *shipping.Service) *Handler {
	return &Handler{
		products: products,
		shipping: shippingSvc,
	}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/product", h.ListProducts)
	mux.HandleFunc("GET /api/shipping/types", h.ListShippingTypes)
	mux.HandleFunc("POST /api/order", h.PlaceOrder)
	mux.HandleFunc("GET /api/shipping/{id}", h.ShippingStatus)
}

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}
