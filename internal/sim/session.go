package sim

// Session bundles one engine, its map feed and the notification pipeline
// into a single lifecycle. A process runs exactly one session; discarding
// it must cancel both timer loops so no orphaned callback can mutate a
// torn-down state container.
type Session struct {
	engine        *Engine
	feed          *MapFeed
	notifications *NotificationManager
}

// NewSession wires up a fresh engine, a map feed reading the engine's
// protocol flag, and a notification manager receiving engine events.
func NewSession(logger Logger) *Session {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	engine := NewEngineWithLogger(logger)
	feed := NewMapFeedWithLogger(engine.ProtocolEnabled, logger)
	nm := NewNotificationManagerWithLogger(logger)
	engine.SetNotificationManager(nm)
	return &Session{
		engine:        engine,
		feed:          feed,
		notifications: nm,
	}
}

// Engine returns the session's engine.
func (s *Session) Engine() *Engine { return s.engine }

// Feed returns the session's map feed.
func (s *Session) Feed() *MapFeed { return s.feed }

// Notifications returns the session's notification manager.
func (s *Session) Notifications() *NotificationManager { return s.notifications }

// Run starts both autonomous loops.
func (s *Session) Run() {
	s.engine.Run()
	s.feed.Run()
}

// Close stops both loops, cancelling any pending scheduled work, and
// shuts down the notification pipeline.
func (s *Session) Close() error {
	s.engine.Stop()
	s.feed.Stop()
	return s.notifications.Close()
}
