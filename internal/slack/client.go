package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

// DeliveryError means the Slack API rejected or failed a send. Messages
// delivered before the failure stay delivered; there is no rollback.
type DeliveryError struct {
	StatusCode int
	Reason     string
}

func (e *DeliveryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("slack: delivery failed: %s", e.Reason)
	}
	return fmt.Sprintf("slack: delivery failed with status %d", e.StatusCode)
}

// Client posts messages to one Slack channel through the Web API.
type Client struct {
	baseURL    string
	token      string
	channel    string
	httpClient *http.Client
	debug      bool
}

// NewClient creates a Slack client for the given channel.
func NewClient(token, channel string, debug bool) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		channel: channel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		debug: debug,
	}
}

type postMessageRequest struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text,omitempty"`
	Blocks  []Block `json:"blocks,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends one message to the configured channel. The message must
// carry text or blocks.
func (c *Client) PostMessage(ctx context.Context, msg Message) error {
	if msg.Text == "" && len(msg.Blocks) == 0 {
		return fmt.Errorf("slack: message needs text or blocks")
	}

	body, err := json.Marshal(postMessageRequest{
		Channel: c.channel,
		Text:    msg.Text,
		Blocks:  msg.Blocks,
	})
	if err != nil {
		return fmt.Errorf("slack: failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	if c.debug {
		log.Printf("[slack] POST chat.postMessage (%d blocks)", len(msg.Blocks))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("slack: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &DeliveryError{StatusCode: resp.StatusCode, Reason: string(respBody)}
	}

	var ack postMessageResponse
	if err := json.Unmarshal(respBody, &ack); err != nil {
		return fmt.Errorf("slack: failed to parse response: %w", err)
	}
	if !ack.OK {
		return &DeliveryError{StatusCode: resp.StatusCode, Reason: ack.Error}
	}
	return nil
}

// PostText sends a plain-text message.
func (c *Client) PostText(ctx context.Context, text string) error {
	return c.PostMessage(ctx, Message{Text: text})
}

// Send delivers the messages in order, stopping at the first failure.
// Fire-and-forget: messages already posted are not recalled.
func (c *Client) Send(ctx context.Context, messages []Message) error {
	for i, msg := range messages {
		if err := c.PostMessage(ctx, msg); err != nil {
			return fmt.Errorf("sending message %d of %d: %w", i+1, len(messages), err)
		}
	}
	return nil
}
