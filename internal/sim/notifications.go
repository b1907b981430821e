package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// EngineEvent is the payload fanned out to notifiers whenever the engine
// logs an event: the event itself plus the stats snapshot and protocol
// flag committed in the same transition.
type EngineEvent struct {
	Event           Event `json:"event"`
	Stats           Stats `json:"stats"`
	ProtocolEnabled bool  `json:"protocol_enabled"`
}

// JSON returns the engine event as JSON bytes.
func (ee EngineEvent) JSON() ([]byte, error) {
	return json.Marshal(ee)
}

// Notifier is the interface all notification channels must implement.
type Notifier interface {
	// ID returns a unique identifier for this notifier.
	ID() string

	// Type returns the kind of notifier (e.g. "websocket", "webhook").
	Type() string

	// Notify delivers one engine event. The context carries the
	// per-dispatch timeout.
	Notify(ctx context.Context, event EngineEvent) error

	// Close releases the notifier's resources.
	Close() error
}

// NotificationManager fans engine events out to every registered
// notifier asynchronously, so a slow consumer can never stall an engine
// operation.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan EngineEvent
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a manager with a no-op logger.
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a manager and starts its
// worker goroutine.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	nm := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan EngineEvent, 1024),
		logger:    logger,
	}
	nm.startWorkers(1)
	return nm
}

// RegisterNotifier adds a notifier. IDs must be unique.
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier closes and removes a notifier by id.
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}

	nm.mu.Lock()
	delete(nm.notifiers, id)
	nm.mu.Unlock()
	return nil
}

// GetNotifier retrieves a notifier by id.
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns all registered notifier ids.
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue queues an event for asynchronous fan-out to every registered
// notifier. Non-blocking: if the queue is full the event is dropped.
func (nm *NotificationManager) Enqueue(event EngineEvent) {
	nm.mu.RLock()
	closed := nm.closed
	nm.mu.RUnlock()
	if closed {
		return
	}

	select {
	case nm.jobs <- event:
	default:
		nm.logger.Warnf("notification queue full, dropping event: id=%s", event.Event.ID)
	}
}

func (nm *NotificationManager) startWorkers(n int) {
	for i := 0; i < n; i++ {
		nm.wg.Add(1)
		go nm.worker()
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for event := range nm.jobs {
		nm.dispatch(event)
	}
}

// dispatch delivers one event to every notifier registered at dispatch
// time, each with retry.
func (nm *NotificationManager) dispatch(event EngineEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nm.mu.RLock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	nm.mu.RUnlock()

	for _, id := range ids {
		nm.notifyWithRetry(ctx, id, event)
	}
}

// notifyWithRetry attempts delivery with exponential backoff.
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event EngineEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()
	if !ok {
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)
		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close drains the queue, stops the workers and closes every notifier.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}
