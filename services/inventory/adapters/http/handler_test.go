package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"medbook/services/inventory/adapters/memory"
	"medbook/services/inventory/application/queries"
	"medbook/services/inventory/domain/entities"
	httptransport "medbook/services/inventory/transport/http"
)

func newTestMux(store *memory.Store) *http.ServeMux {
	h := Handler{
		ListProducts: queries.ListProductsUseCase{Inventory: store},
		GetInventory: queries.GetInventoryUseCase{Inventory: store},
	}
	mux := http.NewServeMux()
	h.Routes(mux)
	return mux
}

func TestListProductsEndpoint(t *testing.T) {
	store := memory.NewStore()
	store.SeedProduct(entities.Product{ID: 2, Name: "ibuprofen", PriceCents: 450}, 10)
	store.SeedProduct(entities.Product{ID: 1, Name: "amoxicillin", PriceCents: 900}, 5)
	mux := newTestMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp httptransport.ListProductsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != 1 || resp[1].ID != 2 {
		t.Fatalf("expected products ordered by id, got %+v", resp)
	}
	if resp[0].PriceCents != 900 {
		t.Fatalf("unexpected price: %+v", resp[0])
	}
}

func TestGetInventoryEndpoint(t *testing.T) {
	store := memory.NewStore()
	store.SeedProduct(entities.Product{ID: 1, Name: "amoxicillin", PriceCents: 900}, 5)
	mux := newTestMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp httptransport.InventoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalQuantity != 5 || resp.Available != 5 {
		t.Fatalf("unexpected inventory: %+v", resp)
	}
}

func TestGetInventoryNotFound(t *testing.T) {
	mux := newTestMux(memory.NewStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetInventoryBadProductID(t *testing.T) {
	mux := newTestMux(memory.NewStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
