// Package changelist parses post-route antenna/fill reports into the
// ordered set of cell insertions that every downstream netlist view of
// the design must pick up.
package changelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Banner substrings bracketing the diagnostic sub-section of the report.
// Records between the two banners describe violations the router could
// not fix; they are not insertions and must not enter the change list.
const (
	unfixedBanner = "Unfixed antenna errors"
	fillBanner    = "Fill cell instances"
)

// Entry describes one cell inserted after placement: the instance to
// create, the net it attaches to, the cell type, and the pin that takes
// the net. An empty Pin marks a no-connect placeholder such as a pure
// fill cell.
type Entry struct {
	Instance string
	Net      string
	Cell     string
	Pin      string
}

// List is the deduplicated, insertion-ordered change list. It is built
// once per run and read-only afterwards.
type List struct {
	Entries []Entry
	byName  map[string]int
}

// Len returns the number of entries. A zero-length list is the valid
// "nothing to annotate" outcome, not an error.
func (l *List) Len() int {
	return len(l.Entries)
}

// Has reports whether an instance name is in the change list.
func (l *List) Has(instance string) bool {
	_, ok := l.byName[instance]
	return ok
}

// Cells returns the set of distinct cell types in the list.
func (l *List) Cells() map[string]bool {
	cells := make(map[string]bool)
	for _, e := range l.Entries {
		cells[e.Cell] = true
	}
	return cells
}

func (l *List) add(e Entry) {
	if _, dup := l.byName[e.Instance]; dup {
		// First occurrence wins; the router repeats entries when a net
		// has several violations.
		return
	}
	l.byName[e.Instance] = len(l.Entries)
	l.Entries = append(l.Entries, e)
}

// ParseFile reads a post-route report from a file path.
func ParseFile(path string) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("changelist: failed to open report: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a post-route report. Record lines carry whitespace-
// separated Key=Value fields (Net, Instance, Cell, Pin); records inside
// the unfixed-errors bracket are suppressed.
func Parse(r io.Reader) (*List, error) {
	list := &List{byName: make(map[string]int)}
	suppressed := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, unfixedBanner):
			suppressed = true
			continue
		case strings.Contains(line, fillBanner):
			suppressed = false
			continue
		}
		if suppressed {
			continue
		}
		entry, ok := parseRecord(line)
		if !ok {
			continue
		}
		list.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("changelist: read report: %w", err)
	}
	return list, nil
}

// parseRecord extracts one Entry from a record line. Lines without the
// Net, Instance and Cell fields are not records (headers, separators)
// and are ignored. Pin may be empty or absent.
func parseRecord(line string) (Entry, bool) {
	var entry Entry
	var haveNet, haveInst, haveCell bool
	for _, field := range strings.Fields(line) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		switch key {
		case "Net":
			entry.Net = value
			haveNet = true
		case "Instance":
			entry.Instance = value
			haveInst = true
		case "Cell":
			entry.Cell = value
			haveCell = true
		case "Pin":
			entry.Pin = value
		}
	}
	if !haveNet || !haveInst || !haveCell || entry.Instance == "" {
		return Entry{}, false
	}
	return entry, true
}
