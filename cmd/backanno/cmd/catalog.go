package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapeoutkit/backanno/pkg/lef"
)

var (
	catalogPrefix string
	catalogScale  int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <lef-file>",
	Short: "Show the fill-cell catalog from a geometry library",
	Long: `Parse a LEF geometry library and display the macros matching the fill
prefix, widest first, with their dimensions on the integer grid.

Examples:
  backanno catalog tech.lef
  backanno catalog tech.lef --prefix FILLCELL`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVar(&catalogPrefix, "prefix", "FILL",
		"macro name prefix selecting fill cells")
	catalogCmd.Flags().IntVar(&catalogScale, "scale", 100,
		"integer grid units per micron")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg := lef.DefaultConfig()
	cfg.Prefix = catalogPrefix
	cfg.ScalePerMicron = catalogScale

	cat, err := lef.NewParser(cfg).ParseFile(args[0])
	if err != nil {
		return err
	}
	cat.SortByWidth()

	fmt.Printf("Library: %s\n", args[0])
	fmt.Printf("Fill macros (prefix %q): %d\n\n", catalogPrefix, cat.Len())
	for _, m := range cat.Macros {
		fmt.Printf("  %-20s %6d x %-6d origin (%d, %d)", m.Name, m.Width, m.Height, m.OriginX, m.OriginY)
		if len(m.Symmetry) > 0 {
			fmt.Printf("  symmetry %v", m.Symmetry)
		}
		fmt.Println()
	}
	return nil
}
