package netlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAlias(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.names")
	content := `# global net names
vdd=VDD33
gnd = DGND

route_layers=5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write naming file: %v", err)
	}

	alias, err := LoadAlias(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if alias.Power != "VDD33" {
		t.Errorf("Expected power VDD33, got %q", alias.Power)
	}
	if alias.Ground != "DGND" {
		t.Errorf("Expected ground DGND, got %q", alias.Ground)
	}
}

func TestLoadAliasMissingFile(t *testing.T) {
	if _, err := LoadAlias(filepath.Join(t.TempDir(), "nope.names")); err == nil {
		t.Fatal("Expected an error for a missing naming file")
	}
}

func TestMapPin(t *testing.T) {
	alias := PowerGroundAlias{Power: "VDD", Ground: "GND"}

	tests := []struct {
		pin  string
		want string
		ok   bool
	}{
		{"VDD", "VDD", true},
		{"VDD!", "VDD", true},
		{"GND", "GND", true},
		{"GND!", "GND", true},
		{"A", "", false},
		{"VDDQ", "", false},
	}
	for _, tt := range tests {
		got, ok := alias.MapPin(tt.pin)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MapPin(%q) = %q, %v; want %q, %v", tt.pin, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapPinZeroValue(t *testing.T) {
	var alias PowerGroundAlias
	if _, ok := alias.MapPin("VDD!"); ok {
		t.Error("Zero-value alias must not map anything")
	}
}
