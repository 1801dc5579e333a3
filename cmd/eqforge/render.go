package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/eqforge/internal/equations"
	"github.com/pdiddy/eqforge/internal/manifest"
	"github.com/pdiddy/eqforge/internal/render"
	"github.com/pdiddy/eqforge/internal/texrun"
	"github.com/pdiddy/eqforge/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every equation in the list that lacks an SVG",
	Long: `Render reads the equations list, verifies the typesetting toolchain, then
renders each equation without an existing SVG in the output directory.
Each equation is typeset to PDF, converted to SVG, and moved into place;
intermediates live in a scratch directory that is removed when the run ends.

Equations whose SVG already exists are skipped and count as successful.
The command exits non-zero if any equation fails to render.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("equations", "", "equations list file (YAML or JSON)")
	renderCmd.Flags().String("output-dir", "", "directory for rendered SVG files")
	renderCmd.Flags().String("scratch-dir", "", "working directory for intermediate files")
	renderCmd.Flags().String("manifest-db", "", "optional SQLite render-history database")

	rootCmd.AddCommand(renderCmd)
}

// renderConfig resolves the run configuration: flag, then config file/env,
// then built-in default.
func renderConfig(cmd *cobra.Command) types.RenderConfig {
	return types.RenderConfig{
		EquationsFile: stringSetting(cmd, "equations", "equations_file", "equations.yaml"),
		OutputDir:     stringSetting(cmd, "output-dir", "output_dir", filepath.Join("assets", "equations")),
		ScratchDir:    stringSetting(cmd, "scratch-dir", "scratch_dir", "scratch"),
		ManifestDB:    stringSetting(cmd, "manifest-db", "manifest_db", ""),
		Tools: types.ToolsConfig{
			Engine:    viper.GetString("tools.engine"),
			Converter: viper.GetString("tools.converter"),
		},
	}
}

func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := renderConfig(cmd)

	eqs, err := equations.Load(cfg.EquationsFile)
	if err != nil {
		return err
	}
	if len(eqs) == 0 {
		fmt.Printf("No equations found in %s\n", cfg.EquationsFile)
		return nil
	}

	tc := texrun.New(cfg.Tools)
	if err := tc.Check(); err != nil {
		return err
	}
	fmt.Printf("Found %d equations to process\n", len(eqs))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}

	res := render.Batch(tc, eqs, cfg.OutputDir, cfg.ScratchDir, os.Stdout)

	os.RemoveAll(cfg.ScratchDir)

	if cfg.ManifestDB != "" {
		if err := recordManifest(cfg.ManifestDB, eqs, res); err != nil {
			// The manifest is advisory; a write failure must not fail a
			// run whose renders all succeeded.
			fmt.Fprintf(os.Stderr, "manifest: %v\n", err)
		}
	}

	fmt.Printf("\nRendering complete:\n")
	fmt.Printf("  Successful: %d\n", res.Successful())
	fmt.Printf("  Failed: %d\n", res.Failed)
	fmt.Printf("  SVG files saved to: %s\n", cfg.OutputDir)

	if res.HasFailures() {
		return fmt.Errorf("%d equation(s) failed to render", res.Failed)
	}
	return nil
}

// recordManifest writes one history row per non-skipped record.
func recordManifest(path string, eqs []types.Equation, res render.BatchResult) error {
	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	latexByID := make(map[string]string, len(eqs))
	for _, eq := range eqs {
		latexByID[eq.ID] = eq.Latex
	}

	ctx := context.Background()
	for _, r := range res.Results {
		if r.Status == types.RenderSkipped {
			continue
		}
		entry := manifest.Entry{
			EquationID: r.ID,
			LatexSHA:   manifest.ChecksumLatex(latexByID[r.ID]),
			Status:     string(r.Status),
			Duration:   r.Duration,
			RenderedAt: time.Now(),
		}
		if r.Err != nil {
			entry.StderrTail = tail(r.Err.Error(), 2000)
		}
		if err := store.Record(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// tail keeps at most max bytes from the end of s, trimmed forward to the
// next rune boundary so the result is always valid UTF-8.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
