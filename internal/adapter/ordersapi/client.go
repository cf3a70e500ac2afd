package ordersapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// TooManyRequestsError represents a rate limiting signal from the API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client reads order statuses from the ikanmart HTTP API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type statusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// NewClient creates a client with a default timeout.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("api url must be absolute")
	}
	return &Client{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// FetchStatus returns the current status of an order.
func (c *Client) FetchStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/orders/", orderID, "status")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domainErrors.Transient(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data statusResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return "", fmt.Errorf("decode status: %w", err)
		}
		status := model.OrderStatus(data.Status)
		if !status.Valid() {
			return "", fmt.Errorf("unknown order status %q", data.Status)
		}
		return status, nil
	case http.StatusNotFound:
		return "", domainErrors.ErrNotFound
	case http.StatusTooManyRequests:
		return "", TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("order status request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		err := fmt.Errorf("orders api error: %s", resp.Status)
		if resp.StatusCode >= http.StatusInternalServerError {
			return "", domainErrors.Transient(err)
		}
		return "", err
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
