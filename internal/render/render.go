// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns equation records into SVG files by driving the
// typesetting toolchain, one record at a time.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/eqforge/pkg/types"
)

// texTemplate wraps one equation body in a minimal standalone document.
const texTemplate = `\documentclass[12pt]{standalone}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{mathtools}
\begin{document}
$%s$
\end{document}
`

// scratchExts is the fixed set of per-id intermediates removed after each
// record. Stray engine byproducts outside this list are left for the
// end-of-run scratch removal.
var scratchExts = []string{".tex", ".pdf", ".log", ".aux"}

// Toolchain is the subset of the texrun toolchain the renderer needs.
type Toolchain interface {
	// Typeset compiles texPath, leaving the PDF in outDir.
	Typeset(texPath, outDir string) error

	// ToSVG converts pdfPath into an SVG at svgPath.
	ToSVG(pdfPath, svgPath string) error
}

// Result is the outcome of one equation's render.
type Result struct {
	ID       string
	Status   types.RenderStatus
	Err      error
	Duration time.Duration
}

// BatchResult summarizes a full run.
type BatchResult struct {
	Rendered int
	Skipped  int
	Failed   int
	Results  []Result
}

// Successful counts rendered plus skipped records; a pre-existing output
// satisfies its record.
func (r BatchResult) Successful() int { return r.Rendered + r.Skipped }

// HasFailures reports whether any record failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// Equation renders a single record. If outputDir/<id>.svg already exists the
// record is skipped without any subprocess work. Known intermediates for the
// id are removed from scratchDir regardless of outcome, and a panic inside
// any step is contained as that record's failure.
func Equation(tc Toolchain, eq types.Equation, outputDir, scratchDir string, w io.Writer) (status types.RenderStatus, err error) {
	outPath := filepath.Join(outputDir, eq.ID+".svg")
	if _, statErr := os.Stat(outPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (SVG already exists)\n", eq.ID)
		return types.RenderSkipped, nil
	}

	fmt.Fprintf(w, "rendering: %s\n", eq.ID)

	defer cleanup(scratchDir, eq.ID)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rendering %s: panic: %v", eq.ID, p)
			fmt.Fprintf(w, "failed: %s (%v)\n", eq.ID, err)
			status = types.RenderFailed
		}
	}()

	texPath := filepath.Join(scratchDir, eq.ID+".tex")
	pdfPath := filepath.Join(scratchDir, eq.ID+".pdf")
	svgPath := filepath.Join(scratchDir, eq.ID+".svg")

	doc := fmt.Sprintf(texTemplate, eq.Latex)
	if werr := os.WriteFile(texPath, []byte(doc), 0o644); werr != nil {
		return fail(w, eq.ID, fmt.Errorf("writing %s: %w", texPath, werr))
	}

	if terr := tc.Typeset(texPath, scratchDir); terr != nil {
		return fail(w, eq.ID, terr)
	}
	if _, serr := os.Stat(pdfPath); serr != nil {
		return fail(w, eq.ID, fmt.Errorf("engine produced no PDF for %s", eq.ID))
	}

	if cerr := tc.ToSVG(pdfPath, svgPath); cerr != nil {
		return fail(w, eq.ID, cerr)
	}
	if _, serr := os.Stat(svgPath); serr != nil {
		return fail(w, eq.ID, fmt.Errorf("converter produced no SVG for %s", eq.ID))
	}

	if rerr := os.Rename(svgPath, outPath); rerr != nil {
		return fail(w, eq.ID, fmt.Errorf("moving %s: %w", svgPath, rerr))
	}

	fmt.Fprintf(w, "rendered: %s\n", eq.ID)
	return types.RenderDone, nil
}

func fail(w io.Writer, id string, err error) (types.RenderStatus, error) {
	fmt.Fprintf(w, "failed: %s (%v)\n", id, err)
	return types.RenderFailed, err
}

// cleanup best-effort deletes the known intermediates for id. Failures are
// ignored; cleanup is advisory.
func cleanup(scratchDir, id string) {
	for _, ext := range scratchExts {
		os.Remove(filepath.Join(scratchDir, id+ext))
	}
}

// Batch renders every equation in order, one record fully processed before
// the next begins, and returns the tally. A failed record never stops the
// records after it.
func Batch(tc Toolchain, eqs []types.Equation, outputDir, scratchDir string, w io.Writer) BatchResult {
	var res BatchResult
	for _, eq := range eqs {
		start := time.Now()
		status, err := Equation(tc, eq, outputDir, scratchDir, w)
		res.Results = append(res.Results, Result{
			ID:       eq.ID,
			Status:   status,
			Err:      err,
			Duration: time.Since(start),
		})
		switch status {
		case types.RenderDone:
			res.Rendered++
		case types.RenderSkipped:
			res.Skipped++
		case types.RenderFailed:
			res.Failed++
		}
	}
	return res
}
