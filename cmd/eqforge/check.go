package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/eqforge/internal/texrun"
	"github.com/pdiddy/eqforge/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the typesetting toolchain is installed",
	Long: `Check probes each required external tool (tectonic, pdftocairo) and
reports its status. Exits non-zero if any tool is missing or not runnable.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	tc := texrun.New(types.ToolsConfig{
		Engine:    viper.GetString("tools.engine"),
		Converter: viper.GetString("tools.converter"),
	})

	var missing []texrun.Tool
	for _, tool := range tc.Tools() {
		if err := tc.Probe(tool); err != nil {
			fmt.Printf("%-12s missing (%v)\n", tool.Bin, err)
			missing = append(missing, tool)
		} else {
			fmt.Printf("%-12s ok\n", tool.Bin)
		}
	}

	if len(missing) > 0 {
		return &texrun.MissingToolsError{Tools: missing}
	}
	return nil
}
