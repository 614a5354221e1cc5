package lef

import (
	"errors"
	"sort"
)

// ErrEmptyCatalog is returned when no macro in the library matches the
// configured name prefix. Downstream planning cannot proceed without at
// least one fill macro, so callers treat this as fatal.
var ErrEmptyCatalog = errors.New("lef: no macros match the configured prefix")

// Macro represents a single cell footprint from a geometry library.
// Dimensions and origin are kept on an integer grid (hundredths of a
// micron by default) so that no floating-point drift accumulates between
// the tools that exchange these files.
type Macro struct {
	Name     string   // macro name as declared in the library
	Width    int      // bounding box width in grid units
	Height   int      // bounding box height in grid units
	OriginX  int      // origin X in grid units
	OriginY  int      // origin Y in grid units
	Symmetry []string // symmetry tokens (X, Y, R90) as declared
}

// Catalog holds the macros selected from a geometry library, in library
// declaration order. Once built it is read-only.
type Catalog struct {
	Macros []Macro
}

// Len returns the number of macros in the catalog.
func (c *Catalog) Len() int {
	return len(c.Macros)
}

// SortByWidth orders the catalog widest-first. Ties keep library
// declaration order so repeated runs produce identical plans.
func (c *Catalog) SortByWidth() {
	sort.SliceStable(c.Macros, func(i, j int) bool {
		return c.Macros[i].Width > c.Macros[j].Width
	})
}
