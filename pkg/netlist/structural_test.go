package netlist

import (
	"strings"
	"testing"

	"github.com/tapeoutkit/backanno/pkg/changelist"
)

func testList(t *testing.T, report string) *changelist.List {
	t.Helper()
	list, err := changelist.Parse(strings.NewReader(report))
	if err != nil {
		t.Fatalf("Failed to build change list: %v", err)
	}
	return list
}

func TestStructuralInsertion(t *testing.T) {
	list := testList(t, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	input := `module top (a, b);
input a;
output b;
BUFX2 buf1 ( .A(a), .Y(b) );
endmodule
`
	var out strings.Builder
	sync := NewStructuralSynchronizer(list, DefaultStructuralConfig())
	if err := sync.Apply(strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 output lines, got %d: %q", len(lines), lines)
	}
	if lines[4] != "ANTENNACELL ANT1 ( .A(N1) );" {
		t.Errorf("Unexpected instantiation line: %q", lines[4])
	}
	if lines[5] != "endmodule" {
		t.Errorf("Expected terminator last, got %q", lines[5])
	}
}

func TestStructuralPowerPins(t *testing.T) {
	list := testList(t, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	input := `module top (a);
endmodule
`
	var out strings.Builder
	sync := NewStructuralSynchronizer(list, DefaultStructuralConfig())
	if err := sync.Apply(strings.NewReader(input), &out, true); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	want := "ANTENNACELL ANT1 ( .vdd(vdd), .gnd(gnd), .A(N1) );"
	if !strings.Contains(out.String(), want) {
		t.Errorf("Expected %q in output, got:\n%s", want, out.String())
	}
}

func TestStructuralNoConnectPlaceholder(t *testing.T) {
	list := testList(t, `Net=fill  Instance=FILL_0_1  Cell=FILL1  Pin=
`)
	input := `module top;
endmodule
`
	var out strings.Builder
	sync := NewStructuralSynchronizer(list, DefaultStructuralConfig())
	if err := sync.Apply(strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	if !strings.Contains(out.String(), "FILL1 FILL_0_1 ( );") {
		t.Errorf("Expected empty connection list, got:\n%s", out.String())
	}
}

func TestStructuralEveryTerminator(t *testing.T) {
	list := testList(t, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	input := `module sub;
endmodule
module top;
endmodule
`
	var out strings.Builder
	sync := NewStructuralSynchronizer(list, DefaultStructuralConfig())
	if err := sync.Apply(strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	if n := strings.Count(out.String(), "ANTENNACELL ANT1"); n != 2 {
		t.Errorf("Expected insertion before every terminator, got %d insertions", n)
	}
}

func TestStructuralRoundTrip(t *testing.T) {
	list := testList(t, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	input := `module top (a, b);
input a;  // port comment survives
  BUFX2 buf1 ( .A(a), .Y(b) );

endmodule
`
	var out strings.Builder
	sync := NewStructuralSynchronizer(list, DefaultStructuralConfig())
	if err := sync.Apply(strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	var kept []string
	for _, line := range strings.Split(out.String(), "\n") {
		if !strings.Contains(line, "ANTENNACELL") {
			kept = append(kept, line)
		}
	}
	want := strings.Split(input, "\n")
	if len(kept) != len(want) {
		t.Fatalf("Expected %d original lines, got %d", len(want), len(kept))
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("Line %d changed: expected %q, got %q", i, want[i], kept[i])
		}
	}
}

func TestStructuralDropExisting(t *testing.T) {
	list := testList(t, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	input := `module top;
endmodule
`
	cfg := DefaultStructuralConfig()
	cfg.DropExisting = true
	sync := NewStructuralSynchronizer(list, cfg)

	var once strings.Builder
	if err := sync.Apply(strings.NewReader(input), &once, false); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	var twice strings.Builder
	if err := sync.Apply(strings.NewReader(once.String()), &twice, false); err != nil {
		t.Fatalf("Failed to re-apply: %v", err)
	}

	if once.String() != twice.String() {
		t.Errorf("Expected idempotent re-apply with DropExisting:\n first: %q\nsecond: %q",
			once.String(), twice.String())
	}
}

func TestVariants(t *testing.T) {
	variants := Variants("design.rtlnopwr.v")
	if len(variants) != 3 {
		t.Fatalf("Expected 3 variants, got %d", len(variants))
	}
	if variants[0].Path != "design.rtlnopwr.v" || variants[0].PowerPins {
		t.Errorf("Unexpected primary variant: %+v", variants[0])
	}
	if variants[1].Path != "design.rtl.v" || !variants[1].PowerPins {
		t.Errorf("Unexpected power-complete variant: %+v", variants[1])
	}
	if variants[2].Path != "design.rtlbb.v" || variants[2].PowerPins {
		t.Errorf("Unexpected black-box variant: %+v", variants[2])
	}
}

func TestVariantsWithoutTag(t *testing.T) {
	variants := Variants("design.v")
	if len(variants) != 1 {
		t.Fatalf("Expected only the primary variant, got %d", len(variants))
	}
}
