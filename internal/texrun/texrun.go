// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texrun invokes the external typesetting toolchain: a LaTeX engine
// that produces PDFs and a converter that turns them into SVGs.
package texrun

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/eqforge/pkg/types"
)

const (
	binEngine    = "tectonic"
	binConverter = "pdftocairo"
)

// Tool describes one required external binary and how to probe its presence.
type Tool struct {
	// Bin is the binary name or path.
	Bin string

	// ProbeArgs is a harmless invocation used only to confirm the tool runs.
	ProbeArgs []string

	// InstallHint tells the user where to get the tool.
	InstallHint string
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCaptured(name string, args ...string) (stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCaptured(name string, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

var defaultExec = &osExecutor{}

// MissingToolsError aggregates every required tool that failed its probe, so
// the user sees the full install list at once rather than one tool per run.
type MissingToolsError struct {
	Tools []Tool
}

func (e *MissingToolsError) Error() string {
	names := make([]string, len(e.Tools))
	for i, t := range e.Tools {
		names[i] = t.Bin
	}
	var b strings.Builder
	fmt.Fprintf(&b, "missing required tools: %s\n", strings.Join(names, ", "))
	b.WriteString("Please install:")
	for _, t := range e.Tools {
		fmt.Fprintf(&b, "\n  - %s: %s", t.Bin, t.InstallHint)
	}
	return b.String()
}

// Toolchain runs the engine and converter binaries.
type Toolchain struct {
	engine    Tool
	converter Tool
	exec      executor
}

// New builds a Toolchain from cfg. Empty binary names fall back to the
// defaults (tectonic, pdftocairo).
func New(cfg types.ToolsConfig) *Toolchain {
	return newToolchain(cfg, defaultExec)
}

func newToolchain(cfg types.ToolsConfig, exec executor) *Toolchain {
	engine := cfg.Engine
	if engine == "" {
		engine = binEngine
	}
	converter := cfg.Converter
	if converter == "" {
		converter = binConverter
	}
	return &Toolchain{
		engine: Tool{
			Bin:         engine,
			ProbeArgs:   []string{"--version"},
			InstallHint: "https://tectonic-typesetting.github.io/",
		},
		converter: Tool{
			Bin: converter,
			// pdftocairo has no --version; -v prints the version banner.
			ProbeArgs:   []string{"-v"},
			InstallHint: "usually comes with the poppler-utils package",
		},
		exec: exec,
	}
}

// Tools returns the required tools in probe order.
func (t *Toolchain) Tools() []Tool {
	return []Tool{t.engine, t.converter}
}

// Probe reports whether a single tool is installed and runnable. A binary
// missing from PATH and a failing probe invocation are treated alike.
func (t *Toolchain) Probe(tool Tool) error {
	if _, err := t.exec.LookPath(tool.Bin); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", tool.Bin, err)
	}
	if err := t.exec.RunSilent(tool.Bin, tool.ProbeArgs...); err != nil {
		return fmt.Errorf("probing %s: %w", tool.Bin, err)
	}
	return nil
}

// Check probes every required tool. All failures are collected into a single
// MissingToolsError; the check runs before any rendering work.
func (t *Toolchain) Check() error {
	var missing []Tool
	for _, tool := range t.Tools() {
		if err := t.Probe(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return &MissingToolsError{Tools: missing}
	}
	return nil
}

// Typeset runs the engine on texPath, directing its output into outDir. On
// failure the engine's stderr is included verbatim in the error.
func (t *Toolchain) Typeset(texPath, outDir string) error {
	stderr, err := t.exec.RunCaptured(t.engine.Bin, "--outdir", outDir, texPath)
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", t.engine.Bin, err, stderr)
	}
	return nil
}

// ToSVG converts pdfPath into an SVG at svgPath.
func (t *Toolchain) ToSVG(pdfPath, svgPath string) error {
	stderr, err := t.exec.RunCaptured(t.converter.Bin, "-svg", pdfPath, svgPath)
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", t.converter.Bin, err, stderr)
	}
	return nil
}
