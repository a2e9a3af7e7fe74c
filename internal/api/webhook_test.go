package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hookgate/internal/config"
	"hookgate/internal/model"
	"hookgate/internal/store"
	"hookgate/internal/webhooks"
)

type replyCall struct {
	ConversationID string
	Text           string
}

type recordReplier struct {
	mu    sync.Mutex
	calls []replyCall
	err   error
}

func (r *recordReplier) SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error) {
	r.mu.Lock()
	r.calls = append(r.calls, replyCall{ConversationID: conversationID, Text: text})
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return &model.Message{ID: "m_echo", ConversationID: conversationID, Direction: "outbound", MessageType: "text", Text: text, Status: "sent"}, nil
}

func (r *recordReplier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestServer(secret string, replier ReplySender) *Server {
	return &Server{
		Ledger:   store.NewMemory(),
		Verifier: webhooks.Verifier{Secret: secret},
		Replier:  replier,
		Broker:   NewBroker(),
		Cfg:      config.Config{},
	}
}

func signedRequest(t *testing.T, secret, deliveryID, event string, body []byte) *http.Request {
	t.Helper()
	const ts = "1700000000"
	req := httptest.NewRequest(http.MethodPost, "/webhooks/sendseven", bytes.NewReader(body))
	sig, err := webhooks.Verifier{Secret: secret}.SignatureFor(body, ts)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	req.Header.Set("X-Sendseven-Signature", sig)
	req.Header.Set("X-Sendseven-Timestamp", ts)
	req.Header.Set("X-Sendseven-Delivery-Id", deliveryID)
	req.Header.Set("X-Sendseven-Event", event)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return out
}

const inboundBody = `{"type":"message.received","tenant_id":"t1","data":{"message":{"direction":"inbound","message_type":"text","text":"hi","conversation_id":"c1"},"contact":{"name":"Ann"}}}`

func TestWebhookEchoEndToEnd(t *testing.T) {
	replier := &recordReplier{}
	srv := newTestServer("s3cret", replier)

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d1", "message.received", []byte(inboundBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)
	if out["success"] != true || out["delivery_id"] != "d1" {
		t.Fatalf("unexpected body: %v", out)
	}
	if replier.count() != 1 {
		t.Fatalf("expected 1 reply, got %d", replier.count())
	}
	if got := replier.calls[0]; got.ConversationID != "c1" || got.Text != `You said: "hi"` {
		t.Fatalf("wrong reply: %+v", got)
	}

	// Identical redelivery: acknowledged as duplicate, no second reply.
	rec = httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d1", "message.received", []byte(inboundBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}
	out = decodeBody(t, rec)
	if out["duplicate"] != true {
		t.Fatalf("expected duplicate marker: %v", out)
	}
	if replier.count() != 1 {
		t.Fatalf("duplicate triggered a second reply: %d calls", replier.count())
	}
}

func TestWebhookDirectionFilter(t *testing.T) {
	replier := &recordReplier{}
	srv := newTestServer("s3cret", replier)
	body := []byte(`{"type":"message.received","tenant_id":"t1","data":{"message":{"direction":"outbound","message_type":"text","text":"echo","conversation_id":"c1"}}}`)

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d2", "message.received", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["skipped"] != "outbound" {
		t.Fatalf("expected outbound skip marker: %v", out)
	}
	if replier.count() != 0 {
		t.Fatalf("outbound message triggered a reply")
	}
}

func TestWebhookChallengeBypass(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	body := []byte(`{"type":"sendseven_verification","data":{"challenge":"tok_abc123xyz"}}`)

	// No signature, timestamp, or delivery id headers at all.
	req := httptest.NewRequest(http.MethodPost, "/webhooks/sendseven", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["challenge"] != "tok_abc123xyz" {
		t.Fatalf("challenge not echoed: %v", out)
	}
}

func TestWebhookMissingHeaders(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	req := signedRequest(t, "s3cret", "d3", "message.sent", []byte(`{"type":"message.sent","data":{}}`))
	req.Header.Del("X-Sendseven-Timestamp")

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if out := decodeBody(t, rec); out["error"] != "Missing required headers" {
		t.Fatalf("unexpected error body: %v", out)
	}
}

func TestWebhookInvalidSignature(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	req := signedRequest(t, "wrong-secret", "d4", "message.sent", []byte(`{"type":"message.sent","data":{}}`))

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if out := decodeBody(t, rec); out["error"] != "Invalid signature" {
		t.Fatalf("unexpected error body: %v", out)
	}
}

func TestWebhookNoSecretFailOpen(t *testing.T) {
	replier := &recordReplier{}
	srv := newTestServer("", replier)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/sendseven", bytes.NewReader([]byte(inboundBody)))
	req.Header.Set("X-Sendseven-Signature", "sha256=garbage")
	req.Header.Set("X-Sendseven-Timestamp", "1700000000")
	req.Header.Set("X-Sendseven-Delivery-Id", "d5")
	req.Header.Set("X-Sendseven-Event", "message.received")

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 in unverified mode, got %d", rec.Code)
	}
	if replier.count() != 1 {
		t.Fatalf("expected handling to proceed unverified")
	}
}

func TestWebhookUnknownEventTolerated(t *testing.T) {
	replier := &recordReplier{}
	srv := newTestServer("s3cret", replier)
	body := []byte(`{"type":"message.reacted","tenant_id":"t1","data":{"reaction":"+1"}}`)

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d6", "message.reacted", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown event, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["success"] != true {
		t.Fatalf("unexpected body: %v", out)
	}
	if replier.count() != 0 {
		t.Fatalf("unknown event triggered a reply")
	}
}

func TestWebhookReplyFailureAllowsRetry(t *testing.T) {
	replier := &recordReplier{err: errors.New("api down")}
	srv := newTestServer("s3cret", replier)

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d7", "message.received", []byte(inboundBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("handler failure must still ack with 200, got %d", rec.Code)
	}

	// Failed handling is not marked processed: the provider's redelivery
	// of the same id gets a fresh attempt.
	replier.err = nil
	rec = httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d7", "message.received", []byte(inboundBody)))
	out := decodeBody(t, rec)
	if out["duplicate"] == true {
		t.Fatalf("failed delivery was treated as processed: %v", out)
	}
	if replier.count() != 2 {
		t.Fatalf("expected a retry attempt, got %d calls", replier.count())
	}
}

func TestWebhookInvalidJSON(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/sendseven", bytes.NewReader([]byte(`{"truncated`)))
	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	req := httptest.NewRequest(http.MethodGet, "/webhooks/sendseven", nil)
	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestWebhookNoReplierLogsOnly(t *testing.T) {
	srv := newTestServer("s3cret", nil)

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d8", "message.received", []byte(inboundBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Delivery completed, so a redelivery is a duplicate even without echo.
	rec = httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d8", "message.received", []byte(inboundBody)))
	if out := decodeBody(t, rec); out["duplicate"] != true {
		t.Fatalf("expected duplicate marker: %v", out)
	}
}

func TestWebhookStaleTimestamp(t *testing.T) {
	srv := newTestServer("s3cret", nil)
	srv.Cfg.MaxAge = 5 * time.Minute

	rec := httptest.NewRecorder()
	srv.WebhookHandler(rec, signedRequest(t, "s3cret", "d9", "message.sent", []byte(`{"type":"message.sent","data":{}}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale timestamp, got %d", rec.Code)
	}
}
