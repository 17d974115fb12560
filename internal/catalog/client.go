package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mazraa-market/internal/logger"
)

const defaultClientTimeout = 5 * time.Second

// Client is an HTTP catalog source for deployments where the product catalog
// lives in a separate service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a catalog client. baseURL is the API root, e.g.
// "https://market.example.com/api/v1".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Snapshot fetches the full product list.
func (c *Client) Snapshot(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warnw("catalog_fetch_failed", "base_url", c.baseURL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnw("catalog_fetch_bad_status", "base_url", c.baseURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	products, err := DecodeProductList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return products, nil
}

// DecodeProductList resolves the response envelope once at the fetch
// boundary: either a paginated {count, results} object or a bare array.
func DecodeProductList(r io.Reader) ([]Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty catalog response")
	}

	switch trimmed[0] {
	case '[':
		var products []Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, err
		}
		return products, nil
	case '{':
		var envelope struct {
			Count   int       `json:"count"`
			Results []Product `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		return envelope.Results, nil
	}
	return nil, fmt.Errorf("unrecognized catalog response shape")
}
