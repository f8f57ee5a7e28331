package handler

import (
	"net/http"

	"github.com/go-faster/errors"
)

type productResponse struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	AvailableAmount int     `json:"availableAmount"`
}

// ListProducts returns every product in the catalog with its availability.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.serverError(w, r, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{
			Name:            p.Name,
			Price:           p.Price.InexactFloat64(),
			AvailableAmount: p.Available,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}
