package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// ErrUpstream is returned when the video provider rejects or fails a call.
var ErrUpstream = errors.New("video provider unavailable")

// Client talks to the video provider's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

// Config holds video provider credentials.
type Config struct {
	BaseURL string
	APIKey  string
}

// NewClient creates a provider client. Returns nil when no base URL is
// configured so callers can fall back to link-only rooms.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

type createRoomRequest struct {
	ID        string `json:"id"`
	CreatedBy string `json:"created_by"`
}

type createRoomResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateRoom registers a room with the provider and returns its join URL.
func (c *Client) CreateRoom(ctx context.Context, roomID, createdBy string) (string, error) {
	payload, err := json.Marshal(createRoomRequest{ID: roomID, CreatedBy: createdBy})
	if err != nil {
		return "", fmt.Errorf("video: marshal create room: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("video: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("video provider request failed", "error", err, "room_id", roomID)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 400 {
		c.logger.Error("video provider returned error status", "status", resp.StatusCode, "body", string(body), "room_id", roomID)
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out createRoomResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: response missing join url", ErrUpstream)
	}
	c.logger.Info("video room created", "room_id", roomID, "created_by", createdBy)
	return out.URL, nil
}
