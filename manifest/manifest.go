// Package manifest parses and validates the manifest document embedded in
// every planning request: the coordinate labels along each of the cube's
// three axes.
package manifest

import (
	"encoding/json"
	"fmt"
)

// MalformedManifestError is returned when the manifest JSON is missing
// required fields or has the wrong shape.
type MalformedManifestError struct {
	Reason string
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("malformed manifest: %s", e.Reason)
}

// Manifest is the parsed form of a manifest document: the coordinate labels
// along each of the three cube axes. Dimensions[i] has length equal to the
// cube's extent along axis i.
type Manifest struct {
	Dimensions [3][]int
}

type wireManifest struct {
	Dimensions [][]int `json:"dimensions"`
}

// Parse decodes and validates a manifest document. It requires exactly
// three dimension arrays, each of integer coordinate labels.
func Parse(doc string) (*Manifest, error) {
	var w wireManifest
	if err := json.Unmarshal([]byte(doc), &w); err != nil {
		return nil, &MalformedManifestError{Reason: err.Error()}
	}
	if len(w.Dimensions) != 3 {
		return nil, &MalformedManifestError{
			Reason: fmt.Sprintf("dimensions must have length 3, got %d", len(w.Dimensions)),
		}
	}
	for i, dim := range w.Dimensions {
		if len(dim) == 0 {
			return nil, &MalformedManifestError{
				Reason: fmt.Sprintf("dimensions[%d] must not be empty", i),
			}
		}
	}

	var m Manifest
	copy(m.Dimensions[:], w.Dimensions)
	return &m, nil
}

// CubeShape returns the cube's global extent, derived from the length of
// each dimension's label list.
func (m *Manifest) CubeShape() [3]int {
	return [3]int{len(m.Dimensions[0]), len(m.Dimensions[1]), len(m.Dimensions[2])}
}

// LineNotFoundError is returned when a requested line label does not occur
// in the manifest's labels for the given axis.
type LineNotFoundError struct {
	Line int
	Dim  int
}

func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("line %d not found in dimension %d", e.Line, e.Dim)
}

// Pin looks up line by equality in Dimensions[dim] and returns its
// zero-based positional offset -- the cube-global index along that axis.
func (m *Manifest) Pin(dim int, line int) (int, error) {
	for i, label := range m.Dimensions[dim] {
		if label == line {
			return i, nil
		}
	}
	return 0, &LineNotFoundError{Line: line, Dim: dim}
}
