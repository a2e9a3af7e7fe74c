package api

import (
	"log"

	"hookgate/internal/model"
	"hookgate/internal/webhooks"
)

// eventHandlers routes every dispatchable event type except
// message.received, which carries the reply side effect and lives on
// Server. Handlers here only log; they must tolerate missing or oddly
// shaped data objects.
var eventHandlers = map[webhooks.EventType]func(model.WebhookPayload){
	webhooks.EventMessageSent:          logMessageSent,
	webhooks.EventMessageDelivered:     logMessageDelivered,
	webhooks.EventMessageFailed:        logMessageFailed,
	webhooks.EventConversationCreated:  logConversationCreated,
	webhooks.EventConversationClosed:   logConversationClosed,
	webhooks.EventConversationAssigned: logConversationAssigned,
	webhooks.EventContactCreated:       logContactCreated,
	webhooks.EventContactUpdated:       logContactUpdated,
	webhooks.EventContactDeleted:       logContactDeleted,
	webhooks.EventContactSubscribed:    logContactSubscribed,
	webhooks.EventContactUnsubscribed:  logContactUnsubscribed,
	webhooks.EventLinkClicked:          logLinkClicked,
}

func logMessageSent(p model.WebhookPayload) {
	if m := childMap(p.Data, "message"); m != nil {
		log.Printf("  Message sent: %v", m["id"])
	}
}

func logMessageDelivered(p model.WebhookPayload) {
	if m := childMap(p.Data, "message"); m != nil {
		log.Printf("  Message delivered: %v", m["id"])
	}
}

func logMessageFailed(p model.WebhookPayload) {
	m := childMap(p.Data, "message")
	if m == nil {
		return
	}
	errMsg := "Unknown error"
	if e := childMap(p.Data, "error"); e != nil {
		errMsg = strField(e, "message", errMsg)
	}
	log.Printf("  Message failed: %v - %s", m["id"], errMsg)
}

func logConversationCreated(p model.WebhookPayload) {
	if c := childMap(p.Data, "conversation"); c != nil {
		log.Printf("  Conversation created: %v", c["id"])
	}
}

func logConversationClosed(p model.WebhookPayload) {
	if c := childMap(p.Data, "conversation"); c != nil {
		log.Printf("  Conversation closed: %v", c["id"])
	}
}

func logConversationAssigned(p model.WebhookPayload) {
	c := childMap(p.Data, "conversation")
	if c == nil {
		return
	}
	name := "Unknown"
	if a := childMap(p.Data, "assigned_to"); a != nil {
		name = strField(a, "name", name)
	}
	log.Printf("  Conversation %v assigned to %s", c["id"], name)
}

func logContactCreated(p model.WebhookPayload) {
	if c := childMap(p.Data, "contact"); c != nil {
		log.Printf("  Contact created: %s (%s)", strField(c, "name", "Unknown"), strField(c, "phone", "No phone"))
	}
}

func logContactUpdated(p model.WebhookPayload) {
	if c := childMap(p.Data, "contact"); c != nil {
		log.Printf("  Contact updated: %v", c["id"])
	}
}

func logContactDeleted(p model.WebhookPayload) {
	if c := childMap(p.Data, "contact"); c != nil {
		log.Printf("  Contact deleted: %v (%s)", c["id"], strField(c, "name", "Unknown"))
	}
}

func logContactSubscribed(p model.WebhookPayload) {
	c := childMap(p.Data, "contact")
	if c == nil {
		return
	}
	var listID any
	if sub := childMap(p.Data, "subscription"); sub != nil {
		listID = sub["list_id"]
	}
	log.Printf("  Contact %s subscribed to list %v", strField(c, "name", "Unknown"), listID)
}

func logContactUnsubscribed(p model.WebhookPayload) {
	c := childMap(p.Data, "contact")
	if c == nil {
		return
	}
	var listID any
	if sub := childMap(p.Data, "subscription"); sub != nil {
		listID = sub["list_id"]
	}
	log.Printf("  Contact %s unsubscribed from list %v", strField(c, "name", "Unknown"), listID)
}

func logLinkClicked(p model.WebhookPayload) {
	url := "Unknown URL"
	if l := childMap(p.Data, "link"); l != nil {
		url = strField(l, "url", url)
	}
	name := "Unknown"
	if c := childMap(p.Data, "contact"); c != nil {
		name = strField(c, "name", name)
	}
	log.Printf("  Link clicked: %s by %s", url, name)
}

func childMap(data map[string]any, key string) map[string]any {
	if data == nil {
		return nil
	}
	m, _ := data[key].(map[string]any)
	return m
}

func strField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
