package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rparoni/iotshield/internal/sim"
)

var (
	// AttacksGenerated counts simulated attacks by severity
	AttacksGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iotshield",
			Name:      "attacks_generated_total",
			Help:      "Total number of simulated attacks generated",
		},
		[]string{"severity"},
	)

	// AttacksBlocked counts attacks neutralized by the protocol
	AttacksBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iotshield",
			Name:      "attacks_blocked_total",
			Help:      "Total number of simulated attacks blocked by the protocol",
		},
		[]string{"severity"},
	)

	// ActiveThreats tracks the current number of unblocked active attacks
	ActiveThreats = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "iotshield",
			Name:      "active_threats",
			Help:      "Current number of active, unblocked attacks",
		},
	)

	// ProtocolEnabled is 1 while the protection protocol is on
	ProtocolEnabled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "iotshield",
			Name:      "protocol_enabled",
			Help:      "Whether the protection protocol is currently enabled",
		},
	)

	// MapLines counts lines emitted by the attack-map feed
	MapLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iotshield",
			Name:      "map_lines_total",
			Help:      "Total number of attack-map lines generated",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(AttacksGenerated)
		prometheus.DefaultRegisterer.Register(AttacksBlocked)
		prometheus.DefaultRegisterer.Register(ActiveThreats)
		prometheus.DefaultRegisterer.Register(ProtocolEnabled)
		prometheus.DefaultRegisterer.Register(MapLines)
	})
}

// RecordStats updates the gauges from an engine stats snapshot.
func RecordStats(stats sim.Stats, protocolEnabled bool) {
	ActiveThreats.Set(float64(stats.ActiveThreats))
	if protocolEnabled {
		ProtocolEnabled.Set(1)
	} else {
		ProtocolEnabled.Set(0)
	}
}

// RecordEvent updates the counters from one engine event. Protocol
// toggle events carry the info/warning severities and are skipped; only
// attack events count.
func RecordEvent(ev sim.Event) {
	switch ev.Severity {
	case sim.SeverityInfo, sim.SeverityWarning:
		return
	}
	AttacksGenerated.WithLabelValues(string(ev.Severity)).Inc()
	if ev.Blocked {
		AttacksBlocked.WithLabelValues(string(ev.Severity)).Inc()
	}
}
