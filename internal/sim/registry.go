package sim

// Static registries: the simulated device fleet, the attack catalogue and
// the geographic attack origins. All of this is closed reference data; the
// engine never creates or removes devices and never invents attack types.

var defaultDevices = []Device{
	{
		ID:              "gateway-router",
		Name:            "Home Gateway Router",
		Type:            DeviceRouter,
		Firmware:        "1.4.2",
		Protocol:        "WPA2 / UPnP",
		Vulnerabilities: []string{"default admin credentials", "outdated UPnP stack"},
		Position:        Position{X: 0, Y: 1.2, Z: 0},
	},
	{
		ID:              "front-door-camera",
		Name:            "Front Door Camera",
		Type:            DeviceCamera,
		Firmware:        "2.0.8",
		Protocol:        "RTSP over TCP",
		Vulnerabilities: []string{"unauthenticated RTSP stream", "weak session tokens"},
		Position:        Position{X: -3.5, Y: 2.4, Z: 1.5},
	},
	{
		ID:              "smart-lock",
		Name:            "Smart Door Lock",
		Type:            DeviceDoorLock,
		Firmware:        "0.9.1",
		Protocol:        "BLE 4.2",
		Vulnerabilities: []string{"replayable unlock frames", "no rate limiting on PIN"},
		Position:        Position{X: -3.0, Y: 1.0, Z: 0.2},
	},
	{
		ID:              "hallway-thermostat",
		Name:            "Hallway Thermostat",
		Type:            DeviceThermostat,
		Firmware:        "3.1.0",
		Protocol:        "Zigbee",
		Vulnerabilities: []string{"cleartext pairing", "exposed debug port"},
		Position:        Position{X: 2.2, Y: 1.5, Z: -1.0},
	},
	{
		ID:              "garage-motion-sensor",
		Name:            "Garage Motion Sensor",
		Type:            DeviceMotionSensor,
		Firmware:        "1.0.3",
		Protocol:        "Z-Wave",
		Vulnerabilities: []string{"spoofable presence frames"},
		Position:        Position{X: 3.8, Y: 0.6, Z: 2.4},
	},
	{
		ID:              "living-room-light",
		Name:            "Living Room Light",
		Type:            DeviceSmartLight,
		Firmware:        "5.2.7",
		Protocol:        "Zigbee",
		Vulnerabilities: []string{"hardcoded link key"},
		Position:        Position{X: 1.0, Y: 2.8, Z: 1.8},
	},
}

var attackDefinitions = []AttackDefinition{
	{
		ID:            AttackDenialOfService,
		Name:          "Denial of Service",
		ShortName:     "DoS",
		TargetDevices: []string{"gateway-router", "front-door-camera"},
		Severity:      SeverityHigh,
		Color:         "#ff6b35",
		Description:   "Floods the device with traffic until it stops responding.",
	},
	{
		ID:            AttackMITM,
		Name:          "Man-in-the-Middle",
		ShortName:     "MITM",
		TargetDevices: []string{"front-door-camera", "smart-lock", "hallway-thermostat"},
		Severity:      SeverityHigh,
		Color:         "#ffb347",
		Description:   "Intercepts and alters traffic between the device and the hub.",
	},
	{
		ID:            AttackFirmwareExploit,
		Name:          "Firmware Exploit",
		ShortName:     "FW Exploit",
		TargetDevices: []string{"gateway-router", "smart-lock", "living-room-light"},
		Severity:      SeverityCritical,
		Color:         "#e63946",
		Description:   "Abuses a known firmware flaw to gain full control of the device.",
	},
	{
		ID:            AttackBruteForce,
		Name:          "Brute Force",
		ShortName:     "Brute",
		TargetDevices: []string{"smart-lock", "front-door-camera"},
		Severity:      SeverityMedium,
		Color:         "#f4a261",
		Description:   "Cycles through credentials against the device login.",
	},
	{
		ID:            AttackReplay,
		Name:          "Replay Attack",
		ShortName:     "Replay",
		TargetDevices: []string{"smart-lock", "garage-motion-sensor"},
		Severity:      SeverityMedium,
		Color:         "#ffd166",
		Description:   "Re-sends previously captured command frames.",
	},
	{
		ID:            AttackCredentialTheft,
		Name:          "Credential Theft",
		ShortName:     "Creds",
		TargetDevices: []string{"front-door-camera", "hallway-thermostat", "living-room-light"},
		Severity:      SeverityCritical,
		Color:         "#d62828",
		Description:   "Extracts stored keys and session tokens from the device.",
	},
}

var defaultOrigins = []Origin{
	{Country: "Russia", Lat: 55.7558, Lng: 37.6173, Weight: 22},
	{Country: "China", Lat: 39.9042, Lng: 116.4074, Weight: 22},
	{Country: "United States", Lat: 38.9072, Lng: -77.0369, Weight: 14},
	{Country: "North Korea", Lat: 39.0392, Lng: 125.7625, Weight: 12},
	{Country: "Brazil", Lat: -15.7939, Lng: -47.8828, Weight: 9},
	{Country: "Iran", Lat: 35.6892, Lng: 51.389, Weight: 9},
	{Country: "Unknown", Lat: 0, Lng: 0, Weight: 12},
}

// defaultTarget is the fixed endpoint of every map line: the simulated home.
var defaultTarget = GeoPoint{Lat: 48.1351, Lng: 11.582, Country: "Home"}

// DefaultDevices returns a fresh copy of the simulated fleet, every
// device starting out secure.
func DefaultDevices() []Device {
	out := make([]Device, len(defaultDevices))
	copy(out, defaultDevices)
	for i := range out {
		out[i].Status = StatusSecure
	}
	return out
}

// Definitions returns the attack catalogue in registry order.
func Definitions() []AttackDefinition {
	out := make([]AttackDefinition, len(attackDefinitions))
	copy(out, attackDefinitions)
	return out
}

// DefinitionByType looks up an attack definition by its registry key.
func DefinitionByType(t AttackType) (AttackDefinition, bool) {
	for _, def := range attackDefinitions {
		if def.ID == t {
			return def, true
		}
	}
	return AttackDefinition{}, false
}

// DefaultOrigins returns the weighted geographic origin table.
func DefaultOrigins() []Origin {
	out := make([]Origin, len(defaultOrigins))
	copy(out, defaultOrigins)
	return out
}
