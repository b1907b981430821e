package telemetry

import (
	"context"

	"github.com/rparoni/iotshield/internal/sim"
)

// Recorder is a sim.Notifier that turns engine events into Prometheus
// metric updates. Register it with the session's notification manager.
type Recorder struct{}

func (Recorder) ID() string   { return "telemetry" }
func (Recorder) Type() string { return "metrics" }

func (Recorder) Notify(_ context.Context, event sim.EngineEvent) error {
	RecordEvent(event.Event)
	RecordStats(event.Stats, event.ProtocolEnabled)
	return nil
}

func (Recorder) Close() error { return nil }
