// hooksend posts a signed test delivery to a running gateway, exercising
// the same canonicalization and signature scheme SendSeven uses.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"hookgate/internal/webhooks"
)

func main() {
	_ = godotenv.Load()

	url := flag.String("url", "http://localhost:3000/webhooks/sendseven", "gateway webhook endpoint")
	secret := flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "signing secret (empty sends unsigned)")
	event := flag.String("event", "message.received", "event type")
	text := flag.String("text", "hi", "message text for message.received")
	conversation := flag.String("conversation", "c1", "conversation id")
	tenant := flag.String("tenant", "t1", "tenant id")
	file := flag.String("file", "", "send raw payload from file instead of a generated one")
	repeat := flag.Int("repeat", 1, "times to send with the same delivery id (exercises dedup)")
	flag.Parse()

	deliveryID := uuid.New().String()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	body, err := buildPayload(*file, *event, *tenant, *conversation, *text)
	if err != nil {
		log.Fatalf("payload: %v", err)
	}

	signature := "sha256=unsigned"
	if *secret != "" {
		signature, err = webhooks.Verifier{Secret: *secret}.SignatureFor(body, timestamp)
		if err != nil {
			log.Fatalf("sign: %v", err)
		}
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for i := 0; i < *repeat; i++ {
		req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
		if err != nil {
			log.Fatalf("request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Sendseven-Signature", signature)
		req.Header.Set("X-Sendseven-Timestamp", timestamp)
		req.Header.Set("X-Sendseven-Delivery-Id", deliveryID)
		req.Header.Set("X-Sendseven-Event", *event)

		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("send: %v", err)
		}
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		fmt.Printf("delivery %s attempt %d: %d %s\n", deliveryID, i+1, resp.StatusCode, bytes.TrimSpace(respBody))
	}
}

func buildPayload(file, event, tenant, conversation, text string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	payload := map[string]any{
		"id":         uuid.New().String(),
		"type":       event,
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"tenant_id":  tenant,
		"event_id":   uuid.New().String(),
		"data": map[string]any{
			"message": map[string]any{
				"id":              uuid.New().String(),
				"conversation_id": conversation,
				"direction":       "inbound",
				"message_type":    "text",
				"text":            text,
				"status":          "received",
			},
			"contact": map[string]any{
				"id":   uuid.New().String(),
				"name": "Test Contact",
			},
		},
	}
	return json.Marshal(payload)
}
