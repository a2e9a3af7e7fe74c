package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"hookgate/internal/metrics"
	"hookgate/internal/model"
	"hookgate/internal/webhooks"
)

// Header names fixed by the SendSeven webhook contract.
const (
	headerSignature  = "X-Sendseven-Signature"
	headerTimestamp  = "X-Sendseven-Timestamp"
	headerDeliveryID = "X-Sendseven-Delivery-Id"
	headerEvent      = "X-Sendseven-Event"
)

// WebhookHandler handles POST /webhooks/sendseven. Deliveries move through
// a fixed pipeline: challenge short-circuit, header completeness, signature
// check, dedup, classification, dispatch, acknowledgment. Handler failures
// past the signature check never surface as non-200; the provider's
// contract is "acknowledge promptly, process best-effort".
func (s *Server) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Ownership challenge: answered before header and signature checks so
	// webhook activation works even with no secret configured yet.
	if payload.Type == string(webhooks.EventVerification) {
		s.handleChallenge(w, payload)
		return
	}

	signature := r.Header.Get(headerSignature)
	timestamp := r.Header.Get(headerTimestamp)
	deliveryID := r.Header.Get(headerDeliveryID)
	eventHeader := r.Header.Get(headerEvent)

	if signature == "" || timestamp == "" || deliveryID == "" || eventHeader == "" {
		log.Println("Missing required webhook headers")
		metrics.InboundDeliveries.WithLabelValues(eventLabel(payload.Type), "missing_headers").Inc()
		writeError(w, http.StatusBadRequest, "Missing required headers")
		return
	}

	if s.Verifier.Enabled() {
		if !s.Verifier.Verify(body, timestamp, signature) {
			log.Printf("Invalid signature for delivery %s", deliveryID)
			metrics.InboundDeliveries.WithLabelValues(eventLabel(payload.Type), "invalid_signature").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
	} else {
		log.Printf("Accepting unverified delivery %s (no webhook secret configured)", deliveryID)
	}

	if s.Cfg.MaxAge > 0 && !freshTimestamp(timestamp, s.Cfg.MaxAge) {
		log.Printf("Stale timestamp for delivery %s", deliveryID)
		metrics.InboundDeliveries.WithLabelValues(eventLabel(payload.Type), "stale_timestamp").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	dup, err := s.Ledger.Seen(r.Context(), deliveryID)
	if err != nil {
		// A ledger outage degrades to at-least-once; keep accepting.
		log.Printf("Ledger check failed for delivery %s: %v", deliveryID, err)
	}
	if dup {
		log.Printf("Duplicate delivery %s, skipping", deliveryID)
		metrics.InboundDeliveries.WithLabelValues(eventLabel(payload.Type), "duplicate").Inc()
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"delivery_id": deliveryID,
			"duplicate":   true,
		})
		return
	}

	log.Printf("Webhook received: delivery_id=%s, event=%s, tenant=%s",
		deliveryID, payload.Type, payload.TenantID)
	if s.Cfg.LogPayloads {
		pretty, _ := json.MarshalIndent(payload, "", "  ")
		log.Printf("Full payload:\n%s", pretty)
	}

	resp := map[string]any{"success": true, "delivery_id": deliveryID}

	et, known := webhooks.ParseEventType(payload.Type)
	if !known {
		log.Printf("Unknown event type: %s", payload.Type)
		metrics.InboundDeliveries.WithLabelValues("unknown", "ignored").Inc()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	start := time.Now()
	skip, herr := s.dispatch(r.Context(), et, body, payload)
	outcome := "dispatched"
	switch {
	case herr != nil:
		outcome = "handler_error"
	case skip != "":
		outcome = "skipped"
	}
	metrics.InboundDeliveries.WithLabelValues(string(et), outcome).Inc()
	metrics.HandleDuration.WithLabelValues(string(et), outcome).Observe(time.Since(start).Seconds())

	if herr != nil {
		// Not marked processed: the provider's next redelivery of this id
		// gets a full retry, including the reply send.
		log.Printf("Handler failed for delivery %s (%s): %v", deliveryID, et, herr)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if err := s.Ledger.Mark(r.Context(), deliveryID, payload.Type); err != nil {
		log.Printf("Ledger mark failed for delivery %s: %v", deliveryID, err)
	}
	s.publish(payload, deliveryID)

	if skip != "" {
		resp["skipped"] = skip
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChallenge(w http.ResponseWriter, payload model.WebhookPayload) {
	challenge, _ := payload.Data["challenge"].(string)
	if challenge == "" {
		writeError(w, http.StatusBadRequest, "Missing challenge")
		return
	}
	preview := challenge
	if len(preview) > 8 {
		preview = preview[:8]
	}
	log.Printf("Verification challenge received: %s...", preview)
	writeJSON(w, http.StatusOK, map[string]string{"challenge": challenge})
}

// dispatch routes one classified event. A non-empty skip names why no
// action was taken; a non-nil error keeps the delivery unmarked so
// redelivery retries it.
func (s *Server) dispatch(ctx context.Context, et webhooks.EventType, body []byte, payload model.WebhookPayload) (skip string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	if et == webhooks.EventMessageReceived {
		return s.handleMessageReceived(ctx, body)
	}
	if h, ok := eventHandlers[et]; ok {
		h(payload)
	}
	return "", nil
}

// handleMessageReceived applies the direction filter and, when reply
// credentials are configured, echoes the message back. Only inbound
// messages are acted on; treating our own outbound messages as new events
// would loop forever.
func (s *Server) handleMessageReceived(ctx context.Context, body []byte) (string, error) {
	var evt model.MessageEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return "", fmt.Errorf("decode message event: %w", err)
	}
	msg := evt.Data.Message
	if msg == nil || msg.Direction != "inbound" {
		return "outbound", nil
	}

	contactName := "there"
	if c := evt.Data.Contact; c != nil && c.Name != "" {
		contactName = c.Name
	}
	preview := msg.Text
	if len(preview) > 50 {
		preview = preview[:50]
	}
	if preview == "" {
		preview = "[media]"
	}
	log.Printf("Received message from %s: %s", contactName, preview)

	if s.Replier == nil {
		return "", nil
	}

	reply := webhooks.ReplyFor(msg.MessageType, msg.Text)
	sent, err := s.Replier.SendMessage(ctx, msg.ConversationID, reply)
	if err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	log.Printf("Reply sent: %s", sent.ID)
	return "", nil
}

func (s *Server) publish(payload model.WebhookPayload, deliveryID string) {
	s.Broker.Publish(Event{
		ID:         uuid.New().String(),
		DeliveryID: deliveryID,
		Type:       payload.Type,
		TenantID:   payload.TenantID,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Data:       payload.Data,
	})
}

func freshTimestamp(ts string, maxAge time.Duration) bool {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := time.Since(time.Unix(sec, 0))
	if age < 0 {
		age = -age
	}
	return age <= maxAge
}

// eventLabel keeps metric cardinality bounded: the wire vocabulary is
// open-ended, so unrecognized types collapse into one label value.
func eventLabel(t string) string {
	if et, ok := webhooks.ParseEventType(t); ok {
		return string(et)
	}
	return "unknown"
}
