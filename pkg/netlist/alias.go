package netlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PowerGroundAlias names the global power and ground nets. Either name
// may appear in a subcircuit pin list with a trailing global-net marker
// ("VDD!"); the alias strips the marker so the emitted net matches the
// rest of the netlist. The zero value performs no aliasing: pin names
// pass through literally.
type PowerGroundAlias struct {
	Power  string
	Ground string
}

// LoadAlias reads an optional naming file of name=value lines. The keys
// "vdd" and "gnd" set the two global net names; blank lines and lines
// starting with # are ignored.
func LoadAlias(path string) (PowerGroundAlias, error) {
	var alias PowerGroundAlias

	file, err := os.Open(path)
	if err != nil {
		return alias, fmt.Errorf("netlist: failed to open naming file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		switch strings.ToLower(name) {
		case "vdd":
			alias.Power = value
		case "gnd":
			alias.Ground = value
		}
	}
	if err := scanner.Err(); err != nil {
		return alias, fmt.Errorf("netlist: read naming file: %w", err)
	}
	return alias, nil
}

// MapPin resolves a subcircuit pin name through the alias. It returns
// the global net name and true when the pin is the power or ground name
// (with or without the trailing "!" marker), and false otherwise.
func (a PowerGroundAlias) MapPin(pin string) (string, bool) {
	if a.Power != "" && (pin == a.Power || pin == a.Power+"!") {
		return a.Power, true
	}
	if a.Ground != "" && (pin == a.Ground || pin == a.Ground+"!") {
		return a.Ground, true
	}
	return "", false
}
