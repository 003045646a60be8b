package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

var (
	// ErrCodeNotFound is returned when the upstream has no data for the code.
	ErrCodeNotFound = errors.New("postal: code not found")
	// ErrUpstream is returned when the upstream responds with a server error.
	ErrUpstream = errors.New("postal: upstream unavailable")
	// ErrTimeout is returned when the lookup exceeds the configured timeout.
	ErrTimeout = errors.New("postal: lookup timed out")
)

// Place is a settlement matching a postal code.
type Place struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Result is the lookup response for a postal code.
type Result struct {
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Places     []Place `json:"places"`
}

// Client looks up postal codes against a zippopotam-style API. This is the
// only outbound call with its own per-request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	timeout    time.Duration
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// Config holds postal lookup configuration.
type Config struct {
	BaseURL string
	Country string
	Timeout time.Duration
}

// NewClient creates a postal lookup client.
func NewClient(cfg Config, m *metrics.BookingMetrics, logger *logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.zippopotam.us"
	}
	if cfg.Country == "" {
		cfg.Country = "mx"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		country:    cfg.Country,
		timeout:    cfg.Timeout,
		metrics:    m,
		logger:     logger,
	}
}

type upstreamPlace struct {
	PlaceName string `json:"place name"`
	State     string `json:"state"`
}

type upstreamResponse struct {
	PostCode string          `json:"post code"`
	Country  string          `json:"country"`
	Places   []upstreamPlace `json:"places"`
}

// Lookup fetches the places for a postal code.
func (c *Client) Lookup(ctx context.Context, code string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.country, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("postal: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstreamLatency("postal", time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Warn("postal lookup timed out", "code", code)
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCodeNotFound
	case resp.StatusCode >= 500:
		c.logger.Error("postal upstream returned server error", "status", resp.StatusCode, "code", code)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("postal: unexpected status %d", resp.StatusCode)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("postal: decode response: %w", err)
	}

	result := &Result{PostalCode: body.PostCode, Country: body.Country}
	for _, p := range body.Places {
		result.Places = append(result.Places, Place{Name: p.PlaceName, State: p.State})
	}
	return result, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
