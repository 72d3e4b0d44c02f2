package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"medbook/internal/platform/httpserver"
	"medbook/services/orders/application/commands"
	"medbook/services/orders/application/queries"
	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
	httptransport "medbook/services/orders/transport/http"
)

// Handler terminates the orders HTTP surface. The caller is identified by the
// X-Patient-Id header; the edge gateway that authenticated it is out of scope
// here.
type Handler struct {
	CreateOrder    commands.CreateOrderUseCase
	RequestPayment commands.RequestPaymentUseCase
	GetOrder       queries.GetOrderUseCase
	ListOrders     queries.ListOrdersUseCase
	Logger         *slog.Logger
}

func (h Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("POST /orders/{id}/pay", h.payOrder)
}

func (h Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientFrom(w, r)
	if !ok {
		return
	}

	var req httptransport.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	items := make([]entities.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, entities.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.CreateOrder.Execute(r.Context(), commands.CreateOrderCommand{
		PatientID: patientID,
		Items:     items,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.ListOrders.Execute(r.Context(), patientID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := httptransport.ListOrdersResponse{Orders: make([]httptransport.OrderResponse, 0, len(orders))}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(order))
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientFrom(w, r)
	if !ok {
		return
	}
	orderID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "order id must be an integer")
		return
	}

	order, err := h.GetOrder.Execute(r.Context(), orderID, patientID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientFrom(w, r)
	if !ok {
		return
	}
	orderID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "order id must be an integer")
		return
	}

	var req httptransport.PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	result, err := h.RequestPayment.Execute(r.Context(), commands.RequestPaymentCommand{
		OrderID:   orderID,
		PatientID: patientID,
		Provider:  req.Provider,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusAccepted, httptransport.PayOrderResponse{
		OrderID:     orderID,
		PaymentID:   result.PaymentID,
		AmountCents: result.AmountCents,
		Status:      string(entities.OrderStatusPaymentProcessing),
	})
}

func (h Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrOrderNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		httpserver.WriteError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrEmptyOrder),
		errors.Is(err, domainerrors.ErrUnknownProduct),
		errors.Is(err, domainerrors.ErrInvalidProvider):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	case errors.Is(err, domainerrors.ErrOrderNotPayable):
		httpserver.WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domainerrors.ErrCatalogUnavailable):
		httpserver.WriteError(w, http.StatusServiceUnavailable, "upstream_unavailable", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("unhandled request failure",
				"event", "http_request_failed",
				"module", "orders",
				"layer", "adapters/http",
				"error", err.Error(),
			)
		}
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// patientFrom reads the authenticated patient id. A missing or malformed
// header ends the request with 401.
func patientFrom(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.Header.Get("X-Patient-Id")
	if raw == "" {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthorized", "X-Patient-Id header is required")
		return 0, false
	}
	patientID, err := strconv.Atoi(raw)
	if err != nil || patientID <= 0 {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthorized", "X-Patient-Id header must be a positive integer")
		return 0, false
	}
	return patientID, true
}

func toOrderResponse(order entities.Order) httptransport.OrderResponse {
	items := make([]httptransport.OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, httptransport.OrderItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return httptransport.OrderResponse{
		OrderID:    order.ID,
		PatientID:  order.PatientID,
		Status:     string(order.Status),
		PaymentID:  order.PaymentID,
		TotalCents: order.TotalCents,
		Items:      items,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
