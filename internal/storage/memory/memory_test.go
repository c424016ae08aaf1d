package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jedharris/text-game-sub000/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func TestPutGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := []byte(`{"turn_count":3}`)
	info := storage.SlotInfo{Title: "Test Game", TurnCount: 3, UpdatedAt: time.Now().UTC()}
	if err := s.Put(ctx, "slot1", doc, info); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "slot1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Expected '%s', got '%s'", doc, got)
	}

	// The stored copy must not alias the caller's buffer.
	doc[0] = 'X'
	got, _ = s.Get(ctx, "slot1")
	if got[0] == 'X' {
		t.Error("Expected stored document to be independent of caller buffer")
	}
}

func TestGetMissingSlot(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, storage.ErrSlotNotFound) {
		t.Errorf("Expected ErrSlotNotFound, got %v", err)
	}
}

func TestListOrderedByRecency(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now().UTC()
	s.Put(ctx, "old", []byte("{}"), storage.SlotInfo{UpdatedAt: base.Add(-time.Hour)})
	s.Put(ctx, "new", []byte("{}"), storage.SlotInfo{UpdatedAt: base})

	slots, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(slots))
	}
	if slots[0].Name != "new" {
		t.Errorf("Expected 'new' first, got '%s'", slots[0].Name)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Put(ctx, "slot1", []byte("{}"), storage.SlotInfo{})
	if err := s.Delete(ctx, "slot1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "slot1"); !errors.Is(err, storage.ErrSlotNotFound) {
		t.Errorf("Expected ErrSlotNotFound, got %v", err)
	}
}

func TestAutosaveRing(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		doc := []byte{byte('0' + i)}
		if err := s.Autosave(ctx, doc, 3); err != nil {
			t.Fatalf("Autosave failed: %v", err)
		}
	}
	got, err := s.LatestAutosave(ctx)
	if err != nil {
		t.Fatalf("LatestAutosave failed: %v", err)
	}
	if string(got) != "4" {
		t.Errorf("Expected '4', got '%s'", got)
	}
	s.mu.Lock()
	n := len(s.autosaves)
	s.mu.Unlock()
	if n != 3 {
		t.Errorf("Expected 3 autosaves retained, got %d", n)
	}
}

func TestLatestAutosaveEmpty(t *testing.T) {
	s := New()
	if _, err := s.LatestAutosave(context.Background()); !errors.Is(err, storage.ErrSlotNotFound) {
		t.Errorf("Expected ErrSlotNotFound, got %v", err)
	}
}
