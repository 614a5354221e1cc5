package netlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tapeoutkit/backanno/pkg/changelist"
)

// ErrMissingSubcircuit reports a change-list cell type with no
// subcircuit declaration in the pin-ordering library. The entry cannot
// be inserted (its pin order is unknown) but the rest of the run
// continues.
var ErrMissingSubcircuit = errors.New("netlist: subcircuit not declared in library")

// Signatures maps a cell type to its declared subcircuit pin order.
type Signatures map[string][]string

// ScanSignaturesFile reads a pin-ordering library from a file path.
func ScanSignaturesFile(path string, cells map[string]bool) (Signatures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to open subcircuit library: %w", err)
	}
	defer file.Close()

	return ScanSignatures(file, cells)
}

// ScanSignatures collects the ordered pin list of every subcircuit
// whose name is in cells. Continuation lines (leading "+") extend the
// declaration. A cell declared more than once keeps its first
// declaration.
func ScanSignatures(r io.Reader, cells map[string]bool) (Signatures, error) {
	sigs := make(Signatures)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var name string
	var pins []string
	flush := func() {
		if name == "" {
			return
		}
		if _, dup := sigs[name]; !dup {
			sigs[name] = pins
		}
		name, pins = "", nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "+") && name != "" {
			pins = append(pins, strings.Fields(line[1:])...)
			continue
		}
		flush()
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.EqualFold(fields[0], ".subckt") {
			continue
		}
		if !cells[fields[1]] {
			continue
		}
		name = fields[1]
		pins = append([]string{}, fields[2:]...)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("netlist: read subcircuit library: %w", err)
	}
	return sigs, nil
}

// SpiceConfig controls transistor-netlist synchronization.
type SpiceConfig struct {
	// InstancePrefix is the reserved character opening a subcircuit
	// instance line.
	InstancePrefix byte

	// Terminator closes the netlist; inserted instances are emitted
	// immediately before it.
	Terminator string

	// Alias maps power/ground pin names to the global nets. The zero
	// value leaves names untouched.
	Alias PowerGroundAlias

	// Warnings receives non-fatal diagnostics. Defaults to os.Stderr.
	Warnings io.Writer
}

// DefaultSpiceConfig returns a SpiceConfig for conventional SPICE
// decks: "X" instances, ".ends" terminator, no aliasing.
func DefaultSpiceConfig() *SpiceConfig {
	return &SpiceConfig{
		InstancePrefix: 'X',
		Terminator:     ".ends",
		Warnings:       os.Stderr,
	}
}

// SpiceSynchronizer inserts change-list cells into a transistor-level
// netlist. Stale copies of the same instances are dropped first, so
// applying it to an already-annotated netlist reproduces the same
// output.
type SpiceSynchronizer struct {
	cfg  *SpiceConfig
	list *changelist.List
	sigs Signatures
}

// NewSpiceSynchronizer creates a synchronizer for the given change list
// and signature table. A nil config gets the defaults.
func NewSpiceSynchronizer(list *changelist.List, sigs Signatures, cfg *SpiceConfig) *SpiceSynchronizer {
	if cfg == nil {
		cfg = DefaultSpiceConfig()
	}
	if cfg.InstancePrefix == 0 {
		cfg.InstancePrefix = 'X'
	}
	if cfg.Terminator == "" {
		cfg.Terminator = ".ends"
	}
	if cfg.Warnings == nil {
		cfg.Warnings = os.Stderr
	}
	return &SpiceSynchronizer{cfg: cfg, list: list, sigs: sigs}
}

// ApplyFile rewrites the netlist file in place.
func (s *SpiceSynchronizer) ApplyFile(path string) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("netlist: failed to read %s: %w", path, err)
	}
	var out bytes.Buffer
	if err := s.Apply(bytes.NewReader(input), &out); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("netlist: failed to write %s: %w", path, err)
	}
	return nil
}

// Apply copies the netlist from r to w. Instance lines whose name
// matches a change-list entry are dropped together with their
// continuation lines; the change list is emitted once, before the first
// terminator.
func (s *SpiceSynchronizer) Apply(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	inserted := false
	dropping := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// A dropped instance may spill onto continuation lines.
		if strings.HasPrefix(trimmed, "+") {
			if dropping {
				continue
			}
		} else {
			dropping = false
		}

		fields := strings.Fields(trimmed)
		if len(fields) > 0 {
			if inst, ok := s.instanceName(fields[0]); ok && s.list.Has(inst) {
				dropping = true
				continue
			}
			if !inserted && strings.EqualFold(fields[0], s.cfg.Terminator) {
				if err := s.emitInstances(out); err != nil {
					return err
				}
				inserted = true
			}
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("netlist: write: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("netlist: read: %w", err)
	}
	if !inserted && s.list.Len() > 0 {
		fmt.Fprintf(s.cfg.Warnings, "netlist: no %s terminator found, %d instances not inserted\n",
			s.cfg.Terminator, s.list.Len())
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("netlist: write: %w", err)
	}
	return nil
}

// instanceName extracts the instance name from the first token of an
// instance line.
func (s *SpiceSynchronizer) instanceName(token string) (string, bool) {
	if len(token) < 2 || token[0] != s.cfg.InstancePrefix {
		return "", false
	}
	return token[1:], true
}

// emitInstances writes one instance line per change-list entry, pins in
// declared subcircuit order. Entries whose cell type has no signature
// are reported and skipped.
func (s *SpiceSynchronizer) emitInstances(w io.Writer) error {
	for _, e := range s.list.Entries {
		pins, ok := s.sigs[e.Cell]
		if !ok {
			fmt.Fprintf(s.cfg.Warnings, "netlist: %v: %s (instance %s skipped)\n",
				ErrMissingSubcircuit, e.Cell, e.Instance)
			continue
		}
		parts := make([]string, 0, len(pins)+2)
		parts = append(parts, fmt.Sprintf("%c%s", s.cfg.InstancePrefix, e.Instance))
		for _, pin := range pins {
			parts = append(parts, s.pinNet(pin, e))
		}
		parts = append(parts, e.Cell)
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("netlist: write: %w", err)
		}
	}
	return nil
}

// pinNet maps one subcircuit pin to the net it connects to: the entry's
// net for the designated pin, the global power or ground net through
// the alias, or the pin name itself. Unmapped pins are assumed to be
// tied to same-named global nets.
func (s *SpiceSynchronizer) pinNet(pin string, e changelist.Entry) string {
	if e.Pin != "" && pin == e.Pin {
		return e.Net
	}
	if net, ok := s.cfg.Alias.MapPin(pin); ok {
		return net
	}
	return pin
}
