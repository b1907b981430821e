package sim

import "time"

// Severity grades an attack or a logged event.
// Attack definitions only use the medium/high/critical levels; the
// info and warning levels are reserved for protocol toggle events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AttackType is the key of an attack definition in the static registry.
type AttackType string

const (
	AttackDenialOfService AttackType = "denial_of_service"
	AttackMITM            AttackType = "mitm"
	AttackFirmwareExploit AttackType = "firmware_exploit"
	AttackBruteForce      AttackType = "brute_force"
	AttackReplay          AttackType = "replay_attack"
	AttackCredentialTheft AttackType = "credential_theft"
)

// AttackDefinition is immutable reference data describing an attack type.
type AttackDefinition struct {
	ID            AttackType `json:"id"`
	Name          string     `json:"name"`
	ShortName     string     `json:"short_name"`
	TargetDevices []string   `json:"target_devices"`
	Severity      Severity   `json:"severity"`
	Color         string     `json:"color"`
	Description   string     `json:"description"`
}

// Attack is one active runtime instance of an attack definition.
// Severity and Color are copied from the definition for display use.
type Attack struct {
	ID             string     `json:"id"`
	Type           AttackType `json:"type"`
	TargetDeviceID string     `json:"target_device_id"`
	Blocked        bool       `json:"blocked"`
	Timestamp      time.Time  `json:"timestamp"`
	Severity       Severity   `json:"severity"`
	Color          string     `json:"color"`
}
