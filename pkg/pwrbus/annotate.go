package pwrbus

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultRowMarker is the substring identifying row-boundary records in
// the placement description. Feedthrough cells are emitted once per row
// by the placement flow, so the first one marks the start of the row
// section.
const DefaultRowMarker = "twfeed"

// Annotator inserts the planned strap placements into a placement
// description. Every original line passes through verbatim; the strap
// records are inserted once, before the first row marker seen.
type Annotator struct {
	// RowMarker is the substring that tags a record as a row boundary.
	RowMarker string

	plan *Plan
}

// NewAnnotator creates an annotator for the given plan.
func NewAnnotator(plan *Plan) *Annotator {
	return &Annotator{
		RowMarker: DefaultRowMarker,
		plan:      plan,
	}
}

// Annotate streams the placement description from r to w, inserting
// 2 x rows fixed strap records ahead of the first row marker: one
// column anchored left of each block and one anchored right. The latch
// is per call; running the output through Annotate again would insert a
// second copy.
func (a *Annotator) Annotate(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	done := false
	for scanner.Scan() {
		line := scanner.Text()
		if !done && strings.Contains(line, a.RowMarker) {
			if err := a.emitStraps(out); err != nil {
				return err
			}
			done = true
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("pwrbus: write: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pwrbus: read placement: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("pwrbus: write: %w", err)
	}
	return nil
}

// emitStraps writes one strap record per row per side. Instance names
// are synthetic and sequential so they cannot collide with placed cells.
func (a *Annotator) emitStraps(w io.Writer) error {
	id := 0
	for b := 1; b <= a.plan.Rows; b++ {
		for _, side := range [2]string{"left", "right"} {
			id++
			_, err := fmt.Fprintf(w,
				"cell %d PWRBUS_%d\ninitially fixed 0 from %s of block %d\nleft %d right %d bottom %d top %d\n",
				id, id, side, b, a.plan.Left, a.plan.Right, a.plan.Bottom, a.plan.Top)
			if err != nil {
				return fmt.Errorf("pwrbus: write strap record: %w", err)
			}
		}
	}
	return nil
}
