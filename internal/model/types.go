package model

import "time"

// WebhookPayload is the envelope SendSeven posts to a webhook endpoint.
// Data is kept loosely typed because its shape depends on the event type;
// handlers that need structured access re-decode the raw body.
type WebhookPayload struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	CreatedAt string         `json:"created_at"`
	TenantID  string         `json:"tenant_id"`
	EventID   string         `json:"event_id"`
	Data      map[string]any `json:"data"`
}

// Message is a SendSeven message, both as delivered inside
// message.* webhook events and as returned by POST /messages.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Direction      string `json:"direction"`
	MessageType    string `json:"message_type"`
	Text           string `json:"text"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Contact is the contact object attached to message and contact events.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// MessageEvent is the typed view of a message.received payload body.
type MessageEvent struct {
	Data struct {
		Message *Message `json:"message"`
		Contact *Contact `json:"contact"`
	} `json:"data"`
}

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	MessageType    string `json:"message_type"`
}

// ProcessedDelivery is one ledger entry: a delivery that completed handling.
type ProcessedDelivery struct {
	DeliveryID  string    `json:"delivery_id"`
	EventType   string    `json:"event_type"`
	ProcessedAt time.Time `json:"processed_at"`
}
