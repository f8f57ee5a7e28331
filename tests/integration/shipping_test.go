//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestShippingTypes(t *testing.T) {
	resp := doGet(t, "/api/shipping/types")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[shippingTypesResponse](t, resp)
	want := []string{"Нова Пошта", "Укр Пошта", "Meest Express", "Самовивіз"}
	if len(body.Types) != len(want) {
		t.Fatalf("types: got %v, want %v", body.Types, want)
	}
	for i, typ := range want {
		if body.Types[i] != typ {
			t.Errorf("types[%d]: got %q, want %q", i, body.Types[i], typ)
		}
	}
}

func TestShippingStatus_NotFound(t *testing.T) {
	resp := doGet(t, "/api/shipping/"+uuid.NewString())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestShippingStatus_InProgressShape(t *testing.T) {
	req := orderRequest{
		Items:        []orderItemRequest{{Product: "Sprocket", Quantity: 1}},
		ShippingType: "Meest Express",
	}
	resp := doPost(t, "/api/order", req)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	order := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	statusResp := doGet(t, "/api/shipping/"+order.ShippingID)
	defer statusResp.Body.Close()

	if statusResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", statusResp.StatusCode)
	}

	status := decodeJSON[shippingStatusResponse](t, statusResp)
	if status.ShippingID != order.ShippingID {
		t.Errorf("shipping ID: got %q, want %q", status.ShippingID, order.ShippingID)
	}
	switch status.Status {
	case "in progress", "completed", "failed":
	default:
		t.Errorf("unexpected status %q", status.Status)
	}
}
