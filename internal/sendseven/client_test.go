package sendseven

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hookgate/internal/model"
)

func TestSendMessage(t *testing.T) {
	var gotAuth, gotTenant, gotPath string
	var gotReq model.SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-ID")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Message{
			ID:             "msg_1",
			ConversationID: gotReq.ConversationID,
			Direction:      "outbound",
			MessageType:    "text",
			Text:           gotReq.Text,
			Status:         "queued",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok_123", "t1")
	msg, err := c.SendMessage(context.Background(), "c1", "hello")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if gotAuth != "Bearer tok_123" || gotTenant != "t1" || gotPath != "/messages" {
		t.Fatalf("wrong request: auth=%q tenant=%q path=%q", gotAuth, gotTenant, gotPath)
	}
	if gotReq.MessageType != "text" || gotReq.ConversationID != "c1" || gotReq.Text != "hello" {
		t.Fatalf("wrong body: %+v", gotReq)
	}
	if msg.ID != "msg_1" || msg.Direction != "outbound" {
		t.Fatalf("wrong response: %+v", msg)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "conversation not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "t1")
	_, err := c.SendMessage(context.Background(), "missing", "hello")
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "conversation not found") {
		t.Fatalf("error missing status or body: %v", err)
	}
}
