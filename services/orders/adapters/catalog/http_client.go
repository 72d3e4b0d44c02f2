package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "medbook/services/orders/domain/errors"
)

// Client prices carts against the inventory service's product catalog over
// plain HTTP. Read-only; failures map to a retryable error for the caller.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

type productDTO struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

func (c *Client) GetPrices(ctx context.Context, productIDs []int) (map[int]int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed",
			"event", "catalog_request_failed",
			"module", "orders",
			"layer", "adapter",
			"url", c.baseURL+"/products",
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domainerrors.ErrCatalogUnavailable, resp.StatusCode)
	}

	var products []productDTO
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domainerrors.ErrCatalogUnavailable, err)
	}

	wanted := make(map[int]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}

	prices := make(map[int]int64, len(productIDs))
	for _, product := range products {
		if _, ok := wanted[product.ID]; ok {
			prices[product.ID] = product.PriceCents
		}
	}
	return prices, nil
}
