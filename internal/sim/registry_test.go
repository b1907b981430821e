package sim

import "testing"

func TestDefaultDevices(t *testing.T) {
	devices := DefaultDevices()
	if len(devices) == 0 {
		t.Fatal("Expected a non-empty fleet")
	}

	seen := make(map[string]bool)
	for _, d := range devices {
		if d.ID == "" {
			t.Error("Device with empty id")
		}
		if seen[d.ID] {
			t.Errorf("Duplicate device id %s", d.ID)
		}
		seen[d.ID] = true
		if d.Status != StatusSecure {
			t.Errorf("Device %s: expected secure, got %s", d.ID, d.Status)
		}
	}

	// Copies are independent.
	devices[0].Status = StatusCompromised
	if DefaultDevices()[0].Status != StatusSecure {
		t.Error("Mutating a returned copy leaked into the registry")
	}
}

func TestDefinitions_TargetsExist(t *testing.T) {
	fleet := make(map[string]bool)
	for _, d := range DefaultDevices() {
		fleet[d.ID] = true
	}

	for _, def := range Definitions() {
		if len(def.TargetDevices) == 0 {
			t.Errorf("Definition %s has no targets", def.ID)
		}
		for _, target := range def.TargetDevices {
			if !fleet[target] {
				t.Errorf("Definition %s targets unknown device %s", def.ID, target)
			}
		}
		switch def.Severity {
		case SeverityMedium, SeverityHigh, SeverityCritical:
		default:
			t.Errorf("Definition %s has non-attack severity %s", def.ID, def.Severity)
		}
	}
}

func TestDefinitionByType(t *testing.T) {
	def, ok := DefinitionByType(AttackFirmwareExploit)
	if !ok {
		t.Fatal("Expected firmware_exploit in the catalogue")
	}
	if def.Severity != SeverityCritical {
		t.Errorf("Expected critical severity, got %s", def.Severity)
	}

	if _, ok := DefinitionByType("made_up"); ok {
		t.Error("Expected lookup miss for unknown type")
	}
}

func TestDefaultOrigins(t *testing.T) {
	origins := DefaultOrigins()
	if len(origins) == 0 {
		t.Fatal("Expected a non-empty origin table")
	}
	for _, o := range origins {
		if o.Weight <= 0 {
			t.Errorf("Origin %s has non-positive weight %f", o.Country, o.Weight)
		}
	}
}
