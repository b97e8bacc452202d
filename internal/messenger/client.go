// Package messenger talks to the Facebook Messenger Send API.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// Client sends messages to customers on behalf of the page.
type Client struct {
	graphURL    string
	accessToken string
	httpClient  *http.Client
	logger      *logger.Logger
}

// NewClient creates a Send API client. An empty access token turns every
// send into a logged no-op.
func NewClient(graphURL, accessToken string, log *logger.Logger) *Client {
	return &Client{
		graphURL:    graphURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      log,
	}
}

type recipient struct {
	ID string `json:"id"`
}

type attachmentPayload struct {
	URL        string `json:"url"`
	IsReusable bool   `json:"is_reusable"`
}

type attachment struct {
	Type    string            `json:"type"`
	Payload attachmentPayload `json:"payload"`
}

type outboundMessage struct {
	Text       string      `json:"text,omitempty"`
	Attachment *attachment `json:"attachment,omitempty"`
}

type sendRequest struct {
	Recipient recipient       `json:"recipient"`
	Message   outboundMessage `json:"message"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	err := c.send(ctx, sendRequest{
		Recipient: recipient{ID: recipientID},
		Message:   outboundMessage{Text: text},
	})
	metrics.RecordOutbound("text", err)
	return err
}

// SendImage sends an image attachment by URL.
func (c *Client) SendImage(ctx context.Context, recipientID, imageURL string) error {
	err := c.send(ctx, sendRequest{
		Recipient: recipient{ID: recipientID},
		Message: outboundMessage{Attachment: &attachment{
			Type:    "image",
			Payload: attachmentPayload{URL: imageURL, IsReusable: true},
		}},
	})
	metrics.RecordOutbound("image", err)
	return err
}

func (c *Client) send(ctx context.Context, payload sendRequest) error {
	if c.accessToken == "" {
		c.logger.Warn("page access token not configured, message not sent",
			zap.String("recipient_id", payload.Recipient.ID))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	endpoint := c.graphURL + "/me/messages?access_token=" + url.QueryEscape(c.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send api returned status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
