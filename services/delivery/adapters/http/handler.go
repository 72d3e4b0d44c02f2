package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"medbook/internal/platform/httpserver"
	"medbook/services/delivery/application/commands"
	"medbook/services/delivery/application/queries"
	"medbook/services/delivery/domain/entities"
	domainerrors "medbook/services/delivery/domain/errors"
	httptransport "medbook/services/delivery/transport/http"
)

// Handler terminates the delivery HTTP surface. Deliveries are addressed by
// order id, the natural key peers know; the PATCH endpoint is the trusted
// courier callback.
type Handler struct {
	UpdateStatus commands.UpdateStatusUseCase
	GetDelivery  queries.GetDeliveryUseCase
	Logger       *slog.Logger
}

func (h Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /delivery/{order_id}", h.getDelivery)
	mux.HandleFunc("PATCH /delivery/{order_id}/status", h.updateStatus)
}

func (h Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	delivery, err := h.GetDelivery.Execute(r.Context(), orderID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toDeliveryResponse(delivery))
}

func (h Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	var req httptransport.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	delivery, err := h.UpdateStatus.Execute(r.Context(), commands.UpdateStatusCommand{
		OrderID: orderID,
		Status:  req.Status,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toDeliveryResponse(delivery))
}

func (h Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrDeliveryNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidStatus):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		httpserver.WriteError(w, http.StatusConflict, "conflict", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("unhandled request failure",
				"event", "http_request_failed",
				"module", "delivery",
				"layer", "adapters/http",
				"error", err.Error(),
			)
		}
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func orderIDFrom(w http.ResponseWriter, r *http.Request) (int, bool) {
	orderID, err := strconv.Atoi(r.PathValue("order_id"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "order id must be an integer")
		return 0, false
	}
	return orderID, true
}

func toDeliveryResponse(delivery entities.Delivery) httptransport.DeliveryResponse {
	return httptransport.DeliveryResponse{
		DeliveryID: delivery.ID,
		OrderID:    delivery.OrderID,
		Status:     string(delivery.Status),
		CreatedAt:  delivery.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  delivery.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
