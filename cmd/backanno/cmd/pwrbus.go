package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tapeoutkit/backanno/pkg/lef"
	"github.com/tapeoutkit/backanno/pkg/pwrbus"
)

var (
	pwrbusPrefix   string
	pwrbusMinWidth int
	pwrbusRows     int
	pwrbusMarker   string
	pwrbusOut      string
)

var pwrbusCmd = &cobra.Command{
	Use:   "pwrbus <lef-file> <cel-file>",
	Short: "Inject power-bus strap placements into a placement description",
	Long: `Select the power-strap fill cell from a LEF geometry library and insert
its fixed placements - one column per side of the block, one cell per
row - ahead of the first row marker in the placement description.

The placement file is rewritten in place unless --out names another file.

Examples:
  backanno pwrbus tech.lef design.cel
  backanno pwrbus tech.lef design.cel --rows 36 --min-width 620`,
	Args: cobra.ExactArgs(2),
	RunE: runPwrbus,
}

func init() {
	rootCmd.AddCommand(pwrbusCmd)

	pwrbusCmd.Flags().StringVar(&pwrbusPrefix, "prefix", "FILL",
		"macro name prefix selecting fill cells")
	pwrbusCmd.Flags().IntVar(&pwrbusMinWidth, "min-width", pwrbus.DefaultMinStrapWidth,
		"minimum strap cell width in grid units")
	pwrbusCmd.Flags().IntVar(&pwrbusRows, "rows", pwrbus.DefaultRowEstimate,
		"estimated placement row count")
	pwrbusCmd.Flags().StringVar(&pwrbusMarker, "marker", pwrbus.DefaultRowMarker,
		"substring identifying row-boundary records")
	pwrbusCmd.Flags().StringVar(&pwrbusOut, "out", "",
		"output file (default: rewrite the placement file in place)")
}

func runPwrbus(cmd *cobra.Command, args []string) error {
	lefPath, celPath := args[0], args[1]

	lefCfg := lef.DefaultConfig()
	lefCfg.Prefix = pwrbusPrefix
	cat, err := lef.NewParser(lefCfg).ParseFile(lefPath)
	if err != nil {
		return err
	}

	planCfg := pwrbus.DefaultConfig()
	planCfg.MinStrapWidth = pwrbusMinWidth
	planCfg.Rows = pwrbus.FixedRows(pwrbusRows)
	plan, err := pwrbus.NewPlan(cat, planCfg)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "pwrbus: strap cell %s (%d x %d), %d straps per side\n",
			plan.Straps[0].Name, plan.Straps[0].Width, plan.Straps[0].Height, plan.Rows)
	}

	input, err := os.ReadFile(celPath)
	if err != nil {
		return fmt.Errorf("pwrbus: failed to read placement: %w", err)
	}
	var out bytes.Buffer
	annotator := pwrbus.NewAnnotator(plan)
	annotator.RowMarker = pwrbusMarker
	if err := annotator.Annotate(bytes.NewReader(input), &out); err != nil {
		return err
	}

	target := pwrbusOut
	if target == "" {
		target = celPath
	}
	if err := os.WriteFile(target, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("pwrbus: failed to write placement: %w", err)
	}
	return nil
}
