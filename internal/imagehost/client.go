// Package imagehost uploads product images to imgbb.
package imagehost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/pkg/logger"
)

const (
	// DefaultEndpoint is the imgbb upload API.
	DefaultEndpoint = "https://api.imgbb.com/1/upload"

	// PlaceholderURL stands in for an image the host did not accept.
	PlaceholderURL = "https://via.placeholder.com/400"
)

// Client uploads images and returns their public URL.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates an imgbb client. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint, apiKey string, log *logger.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Upload stores data and returns its URL. Without an API key, or when the
// host rejects the upload, PlaceholderURL is returned instead.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if c.apiKey == "" {
		c.logger.Warn("imgbb api key not configured, using placeholder image")
		return PlaceholderURL, nil
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image host rejected upload", zap.Int("status", resp.StatusCode))
		return PlaceholderURL, nil
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.Data.URL == "" {
		return PlaceholderURL, nil
	}
	return out.Data.URL, nil
}
