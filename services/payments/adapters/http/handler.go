package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"medbook/internal/platform/httpserver"
	"medbook/services/payments/application/commands"
	"medbook/services/payments/application/queries"
	"medbook/services/payments/domain/entities"
	domainerrors "medbook/services/payments/domain/errors"
	httptransport "medbook/services/payments/transport/http"
)

// Handler terminates the payments HTTP surface. The confirm endpoint stands
// in for a trusted provider callback.
type Handler struct {
	ConfirmPayment commands.ConfirmPaymentUseCase
	GetPayment     queries.GetPaymentUseCase
	ListPayments   queries.ListPaymentsUseCase
	Logger         *slog.Logger
}

func (h Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /payments", h.listPayments)
	mux.HandleFunc("GET /payments/{id}", h.getPayment)
	mux.HandleFunc("POST /payments/{id}/confirm", h.confirmPayment)
}

func (h Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.ListPayments.Execute(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := httptransport.ListPaymentsResponse{Payments: make([]httptransport.PaymentDTO, 0, len(payments))}
	for _, payment := range payments {
		resp.Payments = append(resp.Payments, toPaymentDTO(payment))
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentIDFrom(w, r)
	if !ok {
		return
	}

	payment, err := h.GetPayment.Execute(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toPaymentDTO(payment))
}

func (h Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentIDFrom(w, r)
	if !ok {
		return
	}

	var req httptransport.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	payment, err := h.ConfirmPayment.Execute(r.Context(), commands.ConfirmPaymentCommand{
		PaymentID:     id,
		Result:        req.Result,
		ProviderRef:   req.ProviderRef,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toPaymentDTO(payment))
}

func (h Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrPaymentNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidResult):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	case errors.Is(err, domainerrors.ErrPaymentFinalized):
		httpserver.WriteError(w, http.StatusConflict, "conflict", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("unhandled request failure",
				"event", "http_request_failed",
				"module", "payments",
				"layer", "adapters/http",
				"error", err.Error(),
			)
		}
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func paymentIDFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "payment id must be a uuid")
		return uuid.UUID{}, false
	}
	return id, true
}

func toPaymentDTO(payment entities.Payment) httptransport.PaymentDTO {
	return httptransport.PaymentDTO{
		PaymentID:     payment.ID.String(),
		OrderID:       payment.OrderID,
		AmountCents:   payment.AmountCents,
		Provider:      payment.Provider,
		Status:        string(payment.Status),
		ProviderRef:   payment.ProviderRef,
		FailureReason: payment.FailureReason,
		CreatedAt:     payment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     payment.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
