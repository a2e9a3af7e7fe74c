// Package sendseven is a minimal client for the SendSeven messaging API,
// covering the one call the gateway makes: sending a reply into a
// conversation.
package sendseven

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hookgate/internal/model"
)

const DefaultBaseURL = "https://api.sendseven.com/api/v1"

type Client struct {
	BaseURL  string
	Token    string
	TenantID string
	HTTP     *http.Client
}

// NewClient builds a client with a bounded request timeout so a hung API
// call cannot stall webhook acknowledgment.
func NewClient(baseURL, token, tenantID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		TenantID: tenantID,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

// SendMessage posts a text message into a conversation and returns the
// created message.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error) {
	payload := model.SendMessageRequest{
		ConversationID: conversationID,
		Text:           text,
		MessageType:    "text",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Tenant-ID", c.TenantID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &msg, nil
}
