package sim

import (
	"testing"
	"time"
)

func TestRateWindow_Count(t *testing.T) {
	w := newRateWindow(time.Minute)
	now := time.Unix(1_700_000_000, 0)

	w.add(now.Add(-90 * time.Second))
	w.add(now.Add(-30 * time.Second))
	w.add(now)

	if got := w.count(now); got != 2 {
		t.Errorf("Expected 2 inside the window, got %d", got)
	}

	// A timestamp exactly at the cutoff is out.
	w = newRateWindow(time.Minute)
	w.add(now.Add(-time.Minute))
	if got := w.count(now); got != 0 {
		t.Errorf("Expected boundary timestamp excluded, got %d", got)
	}
}

func TestRateWindow_CountPrunes(t *testing.T) {
	w := newRateWindow(time.Minute)
	now := time.Unix(1_700_000_000, 0)

	w.add(now.Add(-2 * time.Minute))
	w.add(now)

	w.count(now)
	if len(w.stamps) != 1 {
		t.Errorf("Expected aged-out timestamps dropped, kept %d", len(w.stamps))
	}
}

func TestRateWindow_Empty(t *testing.T) {
	w := newRateWindow(time.Minute)
	if got := w.count(time.Now()); got != 0 {
		t.Errorf("Expected 0 for an empty window, got %d", got)
	}
}
