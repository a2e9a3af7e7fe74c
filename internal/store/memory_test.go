package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemorySeenMark(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seen, err := m.Seen(ctx, "d1")
	if err != nil || seen {
		t.Fatalf("fresh id reported seen: %v %v", seen, err)
	}
	if err := m.Mark(ctx, "d1", "message.received"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	seen, err = m.Seen(ctx, "d1")
	if err != nil || !seen {
		t.Fatalf("marked id not seen: %v %v", seen, err)
	}
	// Double mark is a no-op.
	if err := m.Mark(ctx, "d1", "message.received"); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	items, err := m.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(items) != 1 || items[0].DeliveryID != "d1" || items[0].EventType != "message.received" {
		t.Fatalf("unexpected recent entries: %+v", items)
	}
}

func TestMemoryRecentOrderAndLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := m.Mark(ctx, fmt.Sprintf("d%d", i), "message.sent"); err != nil {
			t.Fatalf("mark failed: %v", err)
		}
	}
	items, err := m.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(items))
	}
	if items[0].DeliveryID != "d4" || items[2].DeliveryID != "d2" {
		t.Fatalf("wrong order: %+v", items)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("d%d", n%10)
			if _, err := m.Seen(ctx, id); err != nil {
				t.Errorf("seen failed: %v", err)
			}
			if err := m.Mark(ctx, id, "contact.created"); err != nil {
				t.Errorf("mark failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	items, err := m.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("expected 10 distinct entries, got %d", len(items))
	}
}
