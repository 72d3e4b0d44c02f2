package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"medbook/internal/platform/httpserver"
	"medbook/services/inventory/application/queries"
	domainerrors "medbook/services/inventory/domain/errors"
	httptransport "medbook/services/inventory/transport/http"
)

// Handler serves the read-only inventory surface. Writes happen only through
// events; HTTP never moves a counter.
type Handler struct {
	ListProducts queries.ListProductsUseCase
	GetInventory queries.GetInventoryUseCase
	Logger       *slog.Logger
}

func (h Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("GET /inventory/{product_id}", h.getInventory)
}

func (h Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ListProducts.Execute(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := make(httptransport.ListProductsResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, httptransport.ProductDTO{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			PriceCents:  product.PriceCents,
		})
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("product_id"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "bad_request", "product id must be an integer")
		return
	}

	record, err := h.GetInventory.Execute(r.Context(), productID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, httptransport.InventoryResponse{
		ProductID:        record.ProductID,
		TotalQuantity:    record.TotalQuantity,
		ReservedQuantity: record.ReservedQuantity,
		SoldQuantity:     record.SoldQuantity,
		Available:        record.Available(),
	})
}

func (h Handler) writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domainerrors.ErrProductNotFound) {
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if h.Logger != nil {
		h.Logger.Error("unhandled request failure",
			"event", "http_request_failed",
			"module", "inventory",
			"layer", "adapters/http",
			"error", err.Error(),
		)
	}
	httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
}
