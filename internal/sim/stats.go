package sim

import "time"

// Stats is a derived snapshot of the engine's counters. It is recomputed
// by the engine on every mutation, never mutated independently.
type Stats struct {
	TotalAttacks     int `json:"total_attacks"`
	BlockedAttacks   int `json:"blocked_attacks"`
	ActiveThreats    int `json:"active_threats"`
	AttacksPerMinute int `json:"attacks_per_minute"`
}

// rateWindow keeps attack timestamps inside a trailing span and counts
// them. Timestamps that age out of the span are discarded on count.
type rateWindow struct {
	span   time.Duration
	stamps []time.Time
}

func newRateWindow(span time.Duration) *rateWindow {
	return &rateWindow{span: span}
}

func (w *rateWindow) add(t time.Time) {
	w.stamps = append(w.stamps, t)
}

// count prunes timestamps older than the span relative to now and
// returns how many remain. Only timestamps strictly within the trailing
// span are counted.
func (w *rateWindow) count(now time.Time) int {
	cutoff := now.Add(-w.span)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept
	return len(w.stamps)
}
