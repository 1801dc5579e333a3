package types

// Equation is one renderable record from the equations list. The ID doubles
// as the filename stem for every artifact derived from the record.
type Equation struct {
	// ID uniquely identifies the equation within one list.
	ID string `json:"id" yaml:"id"`

	// Latex is the equation body, without math delimiters.
	Latex string `json:"latex" yaml:"latex"`
}

// RenderStatus is the outcome of rendering a single equation.
type RenderStatus string

const (
	// RenderDone means the SVG was produced and moved into the output directory.
	RenderDone RenderStatus = "done"

	// RenderSkipped means the output SVG already existed; no work was performed.
	RenderSkipped RenderStatus = "skipped"

	// RenderFailed means typesetting or conversion failed for the record.
	RenderFailed RenderStatus = "failed"
)
