package webhooks

// EventType identifies a webhook event kind on the wire.
type EventType string

const (
	EventMessageReceived      EventType = "message.received"
	EventMessageSent          EventType = "message.sent"
	EventMessageDelivered     EventType = "message.delivered"
	EventMessageFailed        EventType = "message.failed"
	EventConversationCreated  EventType = "conversation.created"
	EventConversationClosed   EventType = "conversation.closed"
	EventConversationAssigned EventType = "conversation.assigned"
	EventContactCreated       EventType = "contact.created"
	EventContactUpdated       EventType = "contact.updated"
	EventContactDeleted       EventType = "contact.deleted"
	EventContactSubscribed    EventType = "contact.subscribed"
	EventContactUnsubscribed  EventType = "contact.unsubscribed"
	EventLinkClicked          EventType = "link.clicked"

	// EventVerification is the control type SendSeven sends when a webhook
	// is created or updated, to prove endpoint ownership before activation.
	EventVerification EventType = "sendseven_verification"
)

var knownEvents = map[EventType]struct{}{
	EventMessageReceived:      {},
	EventMessageSent:          {},
	EventMessageDelivered:     {},
	EventMessageFailed:        {},
	EventConversationCreated:  {},
	EventConversationClosed:   {},
	EventConversationAssigned: {},
	EventContactCreated:       {},
	EventContactUpdated:       {},
	EventContactDeleted:       {},
	EventContactSubscribed:    {},
	EventContactUnsubscribed:  {},
	EventLinkClicked:          {},
}

// ParseEventType maps a wire value onto the known vocabulary. Unrecognized
// values come back with ok=false; the provider adds event types over time,
// so callers tolerate them rather than reject.
func ParseEventType(s string) (EventType, bool) {
	et := EventType(s)
	_, ok := knownEvents[et]
	return et, ok
}
