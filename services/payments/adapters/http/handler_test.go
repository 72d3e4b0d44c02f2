package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"medbook/services/payments/adapters/memory"
	"medbook/services/payments/application/commands"
	"medbook/services/payments/application/queries"
	"medbook/services/payments/domain/entities"
	httptransport "medbook/services/payments/transport/http"
)

func newTestMux(store *memory.Store) *http.ServeMux {
	h := Handler{
		ConfirmPayment: commands.ConfirmPaymentUseCase{Payments: store},
		GetPayment:     queries.GetPaymentUseCase{Payments: store},
		ListPayments:   queries.ListPaymentsUseCase{Payments: store},
	}
	mux := http.NewServeMux()
	h.Routes(mux)
	return mux
}

func seedPayment(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	id := uuid.New()
	created, err := store.CreateIfAbsent(context.Background(), entities.Payment{
		ID:          id,
		OrderID:     5,
		AmountCents: 900,
		Provider:    "card",
		Status:      entities.PaymentStatusPending,
	})
	if err != nil || !created {
		t.Fatalf("seed payment: created=%v err=%v", created, err)
	}
	return id
}

func TestGetPaymentEndpoint(t *testing.T) {
	store := memory.NewStore()
	id := seedPayment(t, store)
	mux := newTestMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/"+id.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp httptransport.PaymentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PaymentID != id.String() || resp.Status != string(entities.PaymentStatusPending) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetPaymentBadAndMissingIDs(t *testing.T) {
	mux := newTestMux(memory.NewStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestConfirmPaymentEndpoint(t *testing.T) {
	store := memory.NewStore()
	id := seedPayment(t, store)
	mux := newTestMux(store)

	body := `{"result":"success","provider_ref":"ch_42"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/"+id.String()+"/confirm", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp httptransport.PaymentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(entities.PaymentStatusSuccess) || resp.ProviderRef != "ch_42" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Repeat confirmation conflicts.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/"+id.String()+"/confirm", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestConfirmPaymentRejectsBadResult(t *testing.T) {
	store := memory.NewStore()
	id := seedPayment(t, store)
	mux := newTestMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/"+id.String()+"/confirm", strings.NewReader(`{"result":"maybe"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestListPaymentsEndpoint(t *testing.T) {
	store := memory.NewStore()
	seedPayment(t, store)
	seedPayment(t, store)
	mux := newTestMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp httptransport.ListPaymentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(resp.Payments))
	}
}
