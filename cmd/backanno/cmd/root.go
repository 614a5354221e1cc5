package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "backanno",
	Short: "backanno - netlist back-annotation for placed-and-routed designs",
	Long: `backanno keeps the textual views of a placed-and-routed design consistent:
  - Plans power-bus strap cells from a LEF geometry library and injects
    their fixed placements into the placement description
  - Propagates post-route cell insertions (antenna diodes, fill cells)
    into the structural netlist variants and the transistor-level netlist

Examples:
  backanno catalog tech.lef --prefix FILL      # Inspect the fill catalog
  backanno pwrbus tech.lef design.cel          # Inject power-bus straps
  backanno annotate antenna.rpt \
    --verilog design.rtlnopwr.v --spice design.spc --lib stdcells.sp`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
