// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package equations loads and validates the equations list file.
package equations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/eqforge/pkg/types"
)

// listFile is the on-disk representation of the equations list. Records live
// under the "equations" key in both the YAML and JSON forms.
type listFile struct {
	Equations []types.Equation `json:"equations" yaml:"equations"`
}

// ParseError reports a structurally invalid equations list.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing equations file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the equations list at path. Files ending in .json parse as
// JSON; everything else parses as YAML. A missing file surfaces the
// underlying error so callers can distinguish it with
// errors.Is(err, fs.ErrNotExist); any structural problem is a *ParseError.
// A present file with zero records is not an error.
func Load(path string) ([]types.Equation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading equations file: %w", err)
	}

	var list listFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &list)
	} else {
		err = yaml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	for i, eq := range list.Equations {
		if eq.ID == "" {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("equation %d: missing id", i)}
		}
		if eq.Latex == "" {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("equation %d (%s): missing latex", i, eq.ID)}
		}
	}

	return list.Equations, nil
}
