// Package pwrbus plans power-bus strap cells from a fill-cell catalog and
// injects their fixed placements into a placement description.
package pwrbus

import (
	"fmt"

	"github.com/tapeoutkit/backanno/pkg/lef"
)

// Defaults for the provisional planning constants. Both stand in for
// values the flow should eventually derive from the layout itself.
const (
	// DefaultMinStrapWidth is the narrowest fill cell considered able to
	// carry a power strap, in grid units (hundredths of a micron).
	DefaultMinStrapWidth = 500

	// DefaultRowEstimate is the assumed number of placement rows when no
	// estimator is supplied. TODO: derive the row count from the cell
	// area and target aspect ratio once the placement flow exports them.
	DefaultRowEstimate = 20
)

// RowEstimator guesses how many placement rows the layout will use. The
// strap column is replicated once per row on each side of the block.
type RowEstimator interface {
	EstimateRows(cat *lef.Catalog) int
}

// FixedRows returns a RowEstimator that always reports n rows.
func FixedRows(n int) RowEstimator {
	return fixedRows(n)
}

type fixedRows int

func (f fixedRows) EstimateRows(*lef.Catalog) int { return int(f) }

// Config controls strap planning.
type Config struct {
	// MinStrapWidth is the narrowest cell usable as a power-strap
	// filler, in grid units.
	MinStrapWidth int

	// Rows estimates the placement row count. Defaults to
	// FixedRows(DefaultRowEstimate).
	Rows RowEstimator
}

// DefaultConfig returns a Config with the provisional defaults.
func DefaultConfig() *Config {
	return &Config{
		MinStrapWidth: DefaultMinStrapWidth,
		Rows:          FixedRows(DefaultRowEstimate),
	}
}

// Plan describes the strap cell chosen for power-bus duty and where its
// copies go.
type Plan struct {
	// Filler is the widest macro in the catalog, the default filler
	// cell for the flow.
	Filler lef.Macro

	// Straps lists every macro wide enough to carry a power strap,
	// widest first. The first entry is the one placed.
	Straps []lef.Macro

	// Offsets of the strap cell's bounding box from its anchor point.
	// The cell is centered on the anchor axis: half the cell sits on
	// each side.
	Left, Right, Top, Bottom int

	// Rows is the estimated row count; the annotator emits one strap
	// per row per side.
	Rows int
}

// NewPlan selects strap cells from the catalog and computes their
// placement offsets. The catalog is sorted widest-first as a side
// effect. Returns an error if the catalog has no usable strap cell.
func NewPlan(cat *lef.Catalog, cfg *Config) (*Plan, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Rows == nil {
		cfg.Rows = FixedRows(DefaultRowEstimate)
	}
	if cat == nil || cat.Len() == 0 {
		return nil, lef.ErrEmptyCatalog
	}

	cat.SortByWidth()

	plan := &Plan{Filler: cat.Macros[0]}

	// The catalog is widest-first, so candidate selection is a prefix
	// scan: stop at the first macro below the threshold.
	for _, m := range cat.Macros {
		if m.Width < cfg.MinStrapWidth {
			break
		}
		plan.Straps = append(plan.Straps, m)
	}
	if len(plan.Straps) == 0 {
		return nil, fmt.Errorf("pwrbus: no fill cell at least %d units wide", cfg.MinStrapWidth)
	}

	strap := plan.Straps[0]
	plan.Right = strap.Width / 2
	plan.Left = plan.Right - strap.Width
	plan.Top = strap.Height / 2
	plan.Bottom = plan.Top - strap.Height
	plan.Rows = cfg.Rows.EstimateRows(cat)

	return plan, nil
}
