package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eqforge/internal/manifest"
)

var historyCmd = &cobra.Command{
	Use:   "history [equation-id]",
	Short: "Show recorded render history from the manifest database",
	Long: `History reads the render manifest written by 'eqforge render --manifest-db'.
Without arguments it shows the most recent attempt per equation; with an
equation id it shows every recorded attempt for that equation, newest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("manifest-db", "", "SQLite render-history database")
	historyCmd.Flags().Bool("json", false, "emit JSON instead of a table")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := stringSetting(cmd, "manifest-db", "manifest_db", "")
	if path == "" {
		return fmt.Errorf("no manifest database configured: pass --manifest-db or set manifest_db")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("manifest database not found: %w", err)
	}

	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var entries []manifest.Entry
	if len(args) > 0 {
		entries, err = store.History(ctx, args[0])
	} else {
		entries, err = store.Latest(ctx)
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No render history found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-10s  %-20s  %s\n",
		"Equation", "Status", "Duration", "Rendered at", "Checksum")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 76))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-10s  %-20s  %s\n",
			e.EquationID, e.Status, e.Duration.Round(time.Millisecond),
			e.RenderedAt.Local().Format("2006-01-02 15:04:05"),
			shortSHA(e.LatexSHA))
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
