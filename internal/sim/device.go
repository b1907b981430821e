package sim

// DeviceType identifies the kind of simulated smart-home endpoint.
type DeviceType string

const (
	DeviceRouter       DeviceType = "router"
	DeviceCamera       DeviceType = "camera"
	DeviceDoorLock     DeviceType = "door_lock"
	DeviceThermostat   DeviceType = "thermostat"
	DeviceMotionSensor DeviceType = "motion_sensor"
	DeviceSmartLight   DeviceType = "smart_light"
)

// DeviceStatus is the current security posture of a device.
// It is derived exclusively from the active, unblocked attacks
// targeting the device.
type DeviceStatus string

const (
	StatusSecure      DeviceStatus = "secure"
	StatusWarning     DeviceStatus = "warning"
	StatusCompromised DeviceStatus = "compromised"
)

// Position locates a device in the 3D scene rendered by the frontend.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Device represents one simulated IoT endpoint. The device set is fixed
// at engine construction; only Status changes at runtime.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            DeviceType   `json:"type"`
	Firmware        string       `json:"firmware"`
	Protocol        string       `json:"protocol"`
	Vulnerabilities []string     `json:"vulnerabilities"`
	Position        Position     `json:"position"`
	Status          DeviceStatus `json:"status"`
}
