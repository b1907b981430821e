package sim

import "time"

// Event is an immutable audit record of a notable state transition:
// an attack starting (blocked or not) or the protocol being toggled.
type Event struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Message        string    `json:"message"`
	Severity       Severity  `json:"severity"`
	TargetDeviceID string    `json:"target_device_id,omitempty"`
	Blocked        bool      `json:"blocked"`
}

// eventLog is a capped FIFO log: appending beyond max evicts the oldest
// entry. Entries are stored oldest-first; readers get newest-first copies.
type eventLog struct {
	max     int
	entries []Event
}

func newEventLog(max int) *eventLog {
	return &eventLog{
		max:     max,
		entries: make([]Event, 0, max),
	}
}

func (l *eventLog) append(e Event) {
	l.entries = append(l.entries, e)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// newestFirst returns a copy of the log, most recent entry first.
func (l *eventLog) newestFirst() []Event {
	out := make([]Event, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

func (l *eventLog) clear() {
	l.entries = l.entries[:0]
}

func (l *eventLog) len() int {
	return len(l.entries)
}
