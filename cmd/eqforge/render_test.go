// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/pdiddy/eqforge/internal/texrun"
)

// setRenderFlags points the render command at paths under a temp root.
func setRenderFlags(t *testing.T, equations, outputDir, scratchDir string) {
	t.Helper()
	for flag, val := range map[string]string{
		"equations":   equations,
		"output-dir":  outputDir,
		"scratch-dir": scratchDir,
	} {
		if err := renderCmd.Flags().Set(flag, val); err != nil {
			t.Fatal(err)
		}
	}
}

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out), runErr
}

func TestRunRender_MissingListCreatesNoDirs(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "out")
	scratchDir := filepath.Join(root, "scratch")
	setRenderFlags(t, filepath.Join(root, "absent.yaml"), outputDir, scratchDir)

	err := runRender(renderCmd, nil)
	if err == nil {
		t.Fatal("expected error for missing equations file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should surface fs.ErrNotExist, got %v", err)
	}

	for _, dir := range []string{outputDir, scratchDir} {
		if _, serr := os.Stat(dir); serr == nil {
			t.Errorf("%s must not be created when the equations list is missing", dir)
		}
	}
}

func TestRunRender_ToolCheckBeforeAnyWork(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "out")
	scratchDir := filepath.Join(root, "scratch")

	listPath := filepath.Join(root, "equations.yaml")
	if err := os.WriteFile(listPath, []byte("equations:\n  - id: eq1\n    latex: E=mc^2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	setRenderFlags(t, listPath, outputDir, scratchDir)

	viper.Set("tools.engine", "eqforge-test-no-such-engine")
	viper.Set("tools.converter", "eqforge-test-no-such-converter")
	t.Cleanup(func() {
		viper.Set("tools.engine", "")
		viper.Set("tools.converter", "")
	})

	out, err := captureStdout(t, func() error {
		return runRender(renderCmd, nil)
	})
	if err == nil {
		t.Fatal("expected error when no tools are available")
	}

	var merr *texrun.MissingToolsError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *texrun.MissingToolsError, got %T: %v", err, err)
	}
	if len(merr.Tools) != 2 {
		t.Errorf("missing tools = %d, want 2", len(merr.Tools))
	}

	// The tool check aborts the run before progress output or directories.
	if strings.Contains(out, "Found") {
		t.Errorf("per-run progress printed before the tool check passed:\n%s", out)
	}
	for _, dir := range []string{outputDir, scratchDir} {
		if _, serr := os.Stat(dir); serr == nil {
			t.Errorf("%s must not be created when the tool check fails", dir)
		}
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{name: "short string unchanged", s: "hello", max: 10, want: "hello"},
		{name: "exact length unchanged", s: "hello", max: 5, want: "hello"},
		{name: "ascii truncation", s: "abcdef", max: 3, want: "def"},
		{name: "cut lands inside a rune", s: strings.Repeat("é", 100), max: 5, want: strings.Repeat("é", 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tail(tt.s, tt.max)
			if got != tt.want {
				t.Errorf("tail(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("tail produced invalid UTF-8: %q", got)
			}
		})
	}
}
