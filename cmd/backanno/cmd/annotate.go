package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tapeoutkit/backanno/pkg/changelist"
	"github.com/tapeoutkit/backanno/pkg/netlist"
)

var (
	annotateVerilog      string
	annotateSpice        string
	annotateLib          string
	annotateNames        string
	annotateDropExisting bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <report-file>",
	Short: "Propagate post-route cell insertions into every netlist view",
	Long: `Build the change list from a post-route antenna/fill report and insert
the listed cells into the structural netlist variants and the
transistor-level netlist.

The --verilog flag names the power-stripped variant; the power-complete
and black-box variants are derived from it by tag substitution and
synchronized when present. The --spice netlist needs a --lib subcircuit
library to determine pin order.

Examples:
  backanno annotate antenna.rpt --verilog design.rtlnopwr.v
  backanno annotate antenna.rpt --spice design.spc --lib stdcells.sp \
    --names project.names`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&annotateVerilog, "verilog", "",
		"power-stripped structural netlist (primary variant)")
	annotateCmd.Flags().StringVar(&annotateSpice, "spice", "",
		"transistor-level netlist")
	annotateCmd.Flags().StringVar(&annotateLib, "lib", "",
		"subcircuit library giving pin order for inserted cells")
	annotateCmd.Flags().StringVar(&annotateNames, "names", "",
		"naming file with vdd=/gnd= global net names")
	annotateCmd.Flags().BoolVar(&annotateDropExisting, "drop-existing", false,
		"drop matching instantiations from structural netlists before inserting")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	list, err := changelist.ParseFile(args[0])
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		fmt.Fprintln(os.Stderr, "annotate: nothing to annotate")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "annotate: %d cells to insert\n", list.Len())
	}

	var alias netlist.PowerGroundAlias
	if annotateNames != "" {
		alias, err = netlist.LoadAlias(annotateNames)
		if err != nil {
			return err
		}
	}

	if annotateVerilog != "" {
		if err := syncStructural(list, alias); err != nil {
			return err
		}
	}
	if annotateSpice != "" {
		if err := syncSpice(list, alias); err != nil {
			return err
		}
	}
	return nil
}

func syncStructural(list *changelist.List, alias netlist.PowerGroundAlias) error {
	cfg := netlist.DefaultStructuralConfig()
	cfg.DropExisting = annotateDropExisting
	if alias.Power != "" {
		cfg.Power = alias.Power
	}
	if alias.Ground != "" {
		cfg.Ground = alias.Ground
	}
	sync := netlist.NewStructuralSynchronizer(list, cfg)

	for i, variant := range netlist.Variants(annotateVerilog) {
		if i > 0 {
			// Derived variants are optional.
			if _, err := os.Stat(variant.Path); err != nil {
				continue
			}
		}
		if err := sync.ApplyFile(variant.Path, variant.PowerPins); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "annotate: synchronized %s\n", variant.Path)
		}
	}
	return nil
}

func syncSpice(list *changelist.List, alias netlist.PowerGroundAlias) error {
	if annotateLib == "" {
		return fmt.Errorf("annotate: --spice requires --lib for subcircuit pin order")
	}
	sigs, err := netlist.ScanSignaturesFile(annotateLib, list.Cells())
	if err != nil {
		return err
	}

	cfg := netlist.DefaultSpiceConfig()
	cfg.Alias = alias
	sync := netlist.NewSpiceSynchronizer(list, sigs, cfg)
	if err := sync.ApplyFile(annotateSpice); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "annotate: synchronized %s\n", annotateSpice)
	}
	return nil
}
