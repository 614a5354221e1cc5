package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()

	// Reset flags to prevent accumulation between tests
	annotateVerilog = ""
	annotateSpice = ""
	annotateLib = ""
	annotateNames = ""
	annotateDropExisting = false

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

const e2eLEF = `MACRO FILL1
  ORIGIN 0.0 0.0 ;
  SIZE 2.4 BY 6.4 ;
  SYMMETRY X Y ;
END FILL1
MACRO FILL3
  ORIGIN 0.0 0.0 ;
  SIZE 7.0 BY 6.4 ;
  SYMMETRY X Y ;
END FILL3
END LIBRARY
`

// TestPwrbusE2E runs the pwrbus command end-to-end on temp files.
func TestPwrbusE2E(t *testing.T) {
	dir := t.TempDir()
	lefPath := filepath.Join(dir, "tech.lef")
	celPath := filepath.Join(dir, "design.cel")
	writeFile(t, lefPath, e2eLEF)
	writeFile(t, celPath, `cell 1 NAND2X1_1
left 0 right 160 bottom 0 top 640
cell 2 twfeed_1
left 160 right 200 bottom 0 top 640
`)

	err := execute(t, "pwrbus", lefPath, celPath, "--rows", "2", "--min-width", "500")
	if err != nil {
		t.Fatalf("pwrbus failed: %v", err)
	}

	out := readFile(t, celPath)
	if n := strings.Count(out, "initially fixed"); n != 4 {
		t.Errorf("Expected 4 strap records, got %d:\n%s", n, out)
	}
	// FILL3 is 7.0 microns = 700 grid units, centered on the anchor.
	if !strings.Contains(out, "left -350 right 350 bottom -320 top 320") {
		t.Errorf("Unexpected strap extents:\n%s", out)
	}
	if !strings.Contains(out, "cell 1 NAND2X1_1") {
		t.Errorf("Original records must survive:\n%s", out)
	}
}

// TestAnnotateE2E runs the annotate command across all netlist views.
func TestAnnotateE2E(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "antenna.rpt")
	primary := filepath.Join(dir, "design.rtlnopwr.v")
	powered := filepath.Join(dir, "design.rtl.v")
	spice := filepath.Join(dir, "design.spc")
	lib := filepath.Join(dir, "stdcells.sp")
	names := filepath.Join(dir, "project.names")

	writeFile(t, report, `Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
Net=N1  Instance=ANT1  Cell=ANTENNACELL  Pin=A
`)
	writeFile(t, primary, `module top (a);
endmodule
`)
	writeFile(t, powered, `module top (a, VDD, GND);
endmodule
`)
	writeFile(t, spice, `.subckt top N1
.ends
`)
	writeFile(t, lib, `.subckt ANTENNACELL A VDD! GND!
.ends
`)
	writeFile(t, names, "vdd=VDD\ngnd=GND\n")

	err := execute(t, "annotate", report,
		"--verilog", primary, "--spice", spice, "--lib", lib, "--names", names)
	if err != nil {
		t.Fatalf("annotate failed: %v", err)
	}

	if out := readFile(t, primary); !strings.Contains(out, "ANTENNACELL ANT1 ( .A(N1) );") {
		t.Errorf("Primary variant missing insertion:\n%s", out)
	}
	if out := readFile(t, powered); !strings.Contains(out, "ANTENNACELL ANT1 ( .VDD(VDD), .GND(GND), .A(N1) );") {
		t.Errorf("Power-complete variant missing power pins:\n%s", out)
	}
	if out := readFile(t, spice); !strings.Contains(out, "XANT1 N1 VDD GND ANTENNACELL") {
		t.Errorf("Transistor netlist missing insertion:\n%s", out)
	}
}

// TestAnnotateNothingToDo checks the valid empty outcome: exit success,
// no files touched.
func TestAnnotateNothingToDo(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "antenna.rpt")
	primary := filepath.Join(dir, "design.rtlnopwr.v")

	writeFile(t, report, `Unfixed antenna errors:
Net=N2  Instance=BAD1  Cell=ANTENNACELL  Pin=A
# Fill cell instances
`)
	original := `module top (a);
endmodule
`
	writeFile(t, primary, original)

	if err := execute(t, "annotate", report, "--verilog", primary); err != nil {
		t.Fatalf("Empty report must not be an error: %v", err)
	}
	if out := readFile(t, primary); out != original {
		t.Errorf("Empty report must leave the netlist untouched:\n%s", out)
	}
}

// TestAnnotateMissingReport checks the fatal IO path.
func TestAnnotateMissingReport(t *testing.T) {
	if err := execute(t, "annotate", filepath.Join(t.TempDir(), "nope.rpt")); err == nil {
		t.Fatal("Expected an error for a missing report")
	}
}
