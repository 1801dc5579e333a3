package types

// ToolsConfig names the external binaries the renderer shells out to. Only
// the binary paths may be overridden; argument contracts are fixed.
type ToolsConfig struct {
	// Engine is the LaTeX engine binary (default "tectonic").
	Engine string `json:"engine,omitempty" yaml:"engine,omitempty"`

	// Converter is the PDF-to-SVG converter binary (default "pdftocairo").
	Converter string `json:"converter,omitempty" yaml:"converter,omitempty"`
}

// RenderConfig holds settings for a render run.
type RenderConfig struct {
	// EquationsFile is the path to the equations list (YAML or JSON).
	EquationsFile string `json:"equations_file" yaml:"equations_file"`

	// OutputDir is the directory that receives the rendered SVG files.
	// An existing <id>.svg there marks the record as already built.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ScratchDir is the working directory for intermediate files. It is
	// removed at the end of every run.
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir"`

	// ManifestDB is an optional SQLite database recording render history.
	// Empty disables the manifest.
	ManifestDB string `json:"manifest_db,omitempty" yaml:"manifest_db,omitempty"`

	Tools ToolsConfig `json:"tools" yaml:"tools"`
}
