package usecase

import (
	"errors"
	"testing"
	"time"
)

func TestExportRegistry_SavesSnapshot(t *testing.T) {
	store := &fakeStore{}
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))

	uc := NewExportRegistry(store, WithClock(func() time.Time { return now }))
	id, err := uc.Execute("kitchen", testRegistry(t))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if id != "snap-1" {
		t.Fatalf("expected store id, got %q", id)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 snapshot saved, got %d", len(store.saved))
	}

	snap := store.saved[0]
	if snap.Name != "kitchen" {
		t.Fatalf("unexpected name %q", snap.Name)
	}
	if !snap.CreatedAt.Equal(now) || snap.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected CreatedAt=%s in UTC, got %s", now, snap.CreatedAt)
	}
	if len(snap.Records) != 2 || len(snap.Unconvertible) != 1 {
		t.Fatalf("unexpected snapshot contents: %+v", snap)
	}
}

func TestExportRegistry_StoreError(t *testing.T) {
	saveErr := errors.New("read-only filesystem")
	_, err := NewExportRegistry(errStore{err: saveErr}).Execute("kitchen", testRegistry(t))
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected wrapped saveErr, got %v", err)
	}
}
