package api

import (
	"sync"
)

// Event is a processed-delivery notification fanned out to live tails.
type Event struct {
	ID         string         `json:"id"`
	DeliveryID string         `json:"delivery_id"`
	Type       string         `json:"type"`
	TenantID   string         `json:"tenant_id,omitempty"`
	ReceivedAt string         `json:"received_at"`
	Data       map[string]any `json:"data,omitempty"`
}

type EventBroker interface {
	Subscribe() chan Event
	Unsubscribe(ch chan Event)
	Publish(evt Event)
}

// Broker is the in-process fan-out used when no Redis is configured.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish never blocks; a slow tail drops events rather than stalling
// webhook acknowledgment.
func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
