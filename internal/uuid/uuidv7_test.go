package uuid

import (
	"sort"
	"testing"
	"time"
)

func TestNewIsValidV7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid UUID, got %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version nibble 7, got %q in %s", id[14], id)
	}
}

func TestNewSortsInCallOrder(t *testing.T) {
	ids := make([]string, 500)
	for i := range ids {
		ids[i] = New()
	}

	if !sort.StringsAreSorted(ids) {
		t.Fatal("expected IDs generated in sequence to be lexically sorted")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestTimeRoundTrip(t *testing.T) {
	mu.Lock()
	lastMs, seq = 0, 0
	mu.Unlock()

	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	id := newAt(at)

	got, err := Time(id)
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !got.Equal(at) {
		t.Errorf("Time = %v, want %v", got, at)
	}
}

func TestTimeRejectsOtherVersions(t *testing.T) {
	if _, err := Time("f47ac10b-58cc-4372-a567-0e02b2c3d479"); err == nil {
		t.Error("expected error for UUIDv4")
	}
	if _, err := Time("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
}
