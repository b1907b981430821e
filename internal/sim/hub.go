package sim

import (
	"errors"
	"sync"
)

// ErrNotPublished is returned when a consumer reads the hub before a
// producer has published an engine. This is an integration mistake, not
// a runtime condition, so it fails loudly instead of returning a nil
// engine.
var ErrNotPublished = errors.New("sim: no engine published; call StateHub.Publish before reading")

// StateHub is a single-slot broadcast point between the one producer
// owning the engine and any number of consumers. Only the latest
// published engine is visible; there is no queue and no history.
type StateHub struct {
	mu     sync.RWMutex
	engine *Engine
}

// NewStateHub creates an empty hub.
func NewStateHub() *StateHub {
	return &StateHub{}
}

// Publish makes the engine visible to consumers, replacing any
// previously published one.
func (h *StateHub) Publish(e *Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = e
}

// Engine returns the currently published engine, or ErrNotPublished if
// nothing has been published yet.
func (h *StateHub) Engine() (*Engine, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.engine == nil {
		return nil, ErrNotPublished
	}
	return h.engine, nil
}
