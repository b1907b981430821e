// Package demo serves the illustrative REST API: canned devices, attack
// history, stats and events for demo dashboards. It is entirely
// decoupled from the live simulation engine. The data here is a
// separate, static backend and is intentionally different from the
// engine's registries.
package demo

import "time"

// Device is a canned device record.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Firmware string `json:"firmware"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen"`
}

// AttackRecord is one entry of the canned attack history.
type AttackRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Severity  string    `json:"severity"`
	Blocked   bool      `json:"blocked"`
	Timestamp time.Time `json:"timestamp"`
}

// Stage is one step of the 4-stage protection protocol.
type Stage struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ProtocolStatus reports the demo protocol flag and its stage list.
type ProtocolStatus struct {
	Enabled bool    `json:"enabled"`
	Stages  []Stage `json:"stages"`
}

// Stats aggregates the canned attack history.
type Stats struct {
	TotalAttacks   int            `json:"total_attacks"`
	BlockedAttacks int            `json:"blocked_attacks"`
	BySeverity     map[string]int `json:"by_severity"`
	ByType         map[string]int `json:"by_type"`
}

// EventRecord is one canned event log entry.
type EventRecord struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

var baseTime = time.Date(2024, 11, 12, 9, 30, 0, 0, time.UTC)

var cannedDevices = []Device{
	{ID: "demo-hub", Name: "Demo Smart Hub", Type: "hub", Firmware: "4.1.0", Status: "secure", LastSeen: "2m"},
	{ID: "demo-doorbell", Name: "Demo Video Doorbell", Type: "camera", Firmware: "1.8.3", Status: "warning", LastSeen: "14s"},
	{ID: "demo-plug", Name: "Demo Smart Plug", Type: "plug", Firmware: "2.2.1", Status: "secure", LastSeen: "40s"},
	{ID: "demo-speaker", Name: "Demo Voice Speaker", Type: "speaker", Firmware: "7.0.4", Status: "compromised", LastSeen: "5s"},
	{ID: "demo-vacuum", Name: "Demo Robot Vacuum", Type: "vacuum", Firmware: "3.3.9", Status: "secure", LastSeen: "1m"},
}

var cannedAttacks = []AttackRecord{
	{ID: "hist-001", Type: "denial_of_service", Target: "demo-hub", Severity: "high", Blocked: true, Timestamp: baseTime},
	{ID: "hist-002", Type: "brute_force", Target: "demo-doorbell", Severity: "medium", Blocked: false, Timestamp: baseTime.Add(3 * time.Minute)},
	{ID: "hist-003", Type: "firmware_exploit", Target: "demo-speaker", Severity: "critical", Blocked: false, Timestamp: baseTime.Add(7 * time.Minute)},
	{ID: "hist-004", Type: "mitm", Target: "demo-plug", Severity: "high", Blocked: true, Timestamp: baseTime.Add(12 * time.Minute)},
	{ID: "hist-005", Type: "replay_attack", Target: "demo-vacuum", Severity: "medium", Blocked: true, Timestamp: baseTime.Add(18 * time.Minute)},
	{ID: "hist-006", Type: "credential_theft", Target: "demo-doorbell", Severity: "critical", Blocked: true, Timestamp: baseTime.Add(25 * time.Minute)},
}

var cannedStages = []Stage{
	{ID: 1, Name: "Device Attestation", Description: "Verify device identity and firmware integrity", Completed: true},
	{ID: 2, Name: "Key Exchange", Description: "Establish per-device session keys", Completed: true},
	{ID: 3, Name: "Channel Encryption", Description: "Encrypt all device-to-hub traffic", Completed: true},
	{ID: 4, Name: "Anomaly Monitoring", Description: "Continuously watch for abnormal behavior", Completed: false},
}

var cannedEvents = []EventRecord{
	{ID: "demo-ev-1", Message: "Demo hub completed attestation handshake", Severity: "info", Timestamp: baseTime},
	{ID: "demo-ev-2", Message: "Brute force attempt detected on demo doorbell", Severity: "medium", Timestamp: baseTime.Add(3 * time.Minute)},
	{ID: "demo-ev-3", Message: "Firmware exploit succeeded against demo speaker", Severity: "critical", Timestamp: baseTime.Add(7 * time.Minute)},
	{ID: "demo-ev-4", Message: "MITM attempt blocked by channel encryption", Severity: "high", Timestamp: baseTime.Add(12 * time.Minute)},
}

// computeStats derives the aggregate stats from the canned history (not
// from any live engine state).
func computeStats(records []AttackRecord) Stats {
	stats := Stats{
		BySeverity: make(map[string]int),
		ByType:     make(map[string]int),
	}
	for _, rec := range records {
		stats.TotalAttacks++
		if rec.Blocked {
			stats.BlockedAttacks++
		}
		stats.BySeverity[rec.Severity]++
		stats.ByType[rec.Type]++
	}
	return stats
}
