package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/eshop-shipping/internal/domain/shipping"
)

type shippingTypesResponse struct {
	Types []string `json:"types"`
}

// ListShippingTypes returns the ordered shipping type catalog.
func (h *Handler) ListShippingTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, shippingTypesResponse{Types: shipping.AvailableTypes()})
}

type shippingStatusResponse struct {
	ShippingID string `json:"shippingId"`
	Status     string `json:"status"`
}

// ShippingStatus returns the current status of a shipment record.
func (h *Handler) ShippingStatus(w http.ResponseWriter, r *http.Request) {
	shippingID := r.PathValue("id")

	status, err := h.shipping.CheckStatus(r.Context(), shippingID)
	if err != nil {
		if errors.Is(err, shipping.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "shipping not found")
			return
		}
		h.serverError(w, r, errors.Wrap(err, "check shipping status"))
		return
	}

	writeJSON(w, r, http.StatusOK, shippingStatusResponse{
		ShippingID: shippingID,
		Status:     string(status),
	})
}
