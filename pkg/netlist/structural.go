package netlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tapeoutkit/backanno/pkg/changelist"
)

// moduleTerminator closes a module in the structural netlists.
const moduleTerminator = "endmodule"

// Variant is one structural-netlist rendering of the design. The
// power-stripped variant connects only the data pin of each inserted
// cell; the power-complete variant also connects power and ground.
type Variant struct {
	Path      string
	PowerPins bool
}

// Variants derives the full variant set from the primary (power-
// stripped) netlist path. The other renderings use the same name with
// the "nopwr" tag substituted: the power-complete netlist drops it, the
// black-box netlist replaces it with "bb". Only the primary is
// required; callers skip derived variants whose file does not exist.
func Variants(primary string) []Variant {
	variants := []Variant{{Path: primary, PowerPins: false}}
	if !strings.Contains(primary, "nopwr") {
		return variants
	}
	variants = append(variants,
		Variant{Path: strings.Replace(primary, "nopwr", "", 1), PowerPins: true},
		Variant{Path: strings.Replace(primary, "nopwr", "bb", 1), PowerPins: false},
	)
	return variants
}

// StructuralConfig controls structural-netlist synchronization.
type StructuralConfig struct {
	// Power and Ground are the pin/net names connected in the
	// power-complete variant.
	Power  string
	Ground string

	// DropExisting removes pre-existing instantiation lines whose
	// instance name matches a change-list entry before re-inserting,
	// making re-annotation idempotent. Off by default to preserve the
	// append-only behavior the rest of the flow expects.
	DropExisting bool
}

// DefaultStructuralConfig returns a StructuralConfig with the
// conventional lowercase power net names.
func DefaultStructuralConfig() *StructuralConfig {
	return &StructuralConfig{
		Power:  "vdd",
		Ground: "gnd",
	}
}

// StructuralSynchronizer inserts change-list cells into structural
// netlists.
type StructuralSynchronizer struct {
	cfg  *StructuralConfig
	list *changelist.List
}

// NewStructuralSynchronizer creates a synchronizer for the given change
// list. A nil config gets the defaults.
func NewStructuralSynchronizer(list *changelist.List, cfg *StructuralConfig) *StructuralSynchronizer {
	if cfg == nil {
		cfg = DefaultStructuralConfig()
	}
	return &StructuralSynchronizer{cfg: cfg, list: list}
}

// ApplyFile rewrites one netlist file in place.
func (s *StructuralSynchronizer) ApplyFile(path string, powerPins bool) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("netlist: failed to read %s: %w", path, err)
	}
	var out bytes.Buffer
	if err := s.Apply(bytes.NewReader(input), &out, powerPins); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("netlist: failed to write %s: %w", path, err)
	}
	return nil
}

// Apply copies the netlist from r to w, emitting one instantiation per
// change-list entry immediately before every module terminator. Entries
// keep their first-seen order. All other lines pass through verbatim.
func (s *StructuralSynchronizer) Apply(r io.Reader, w io.Writer, powerPins bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if s.cfg.DropExisting && len(fields) >= 2 && s.list.Has(fields[1]) {
			continue
		}
		if len(fields) > 0 && fields[0] == moduleTerminator {
			for _, e := range s.list.Entries {
				if _, err := fmt.Fprintln(out, s.instLine(e, powerPins)); err != nil {
					return fmt.Errorf("netlist: write: %w", err)
				}
			}
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("netlist: write: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("netlist: read: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("netlist: write: %w", err)
	}
	return nil
}

// instLine formats one instantiation. An entry with an empty pin is a
// no-connect placeholder and gets an empty connection list.
func (s *StructuralSynchronizer) instLine(e changelist.Entry, powerPins bool) string {
	var conns []string
	if powerPins {
		conns = append(conns,
			fmt.Sprintf(".%s(%s)", s.cfg.Power, s.cfg.Power),
			fmt.Sprintf(".%s(%s)", s.cfg.Ground, s.cfg.Ground))
	}
	if e.Pin != "" {
		conns = append(conns, fmt.Sprintf(".%s(%s)", e.Pin, e.Net))
	}
	if len(conns) == 0 {
		return fmt.Sprintf("%s %s ( );", e.Cell, e.Instance)
	}
	return fmt.Sprintf("%s %s ( %s );", e.Cell, e.Instance, strings.Join(conns, ", "))
}
