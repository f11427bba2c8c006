package stl

import "errors"

var (
	// ErrTruncatedFile means a binary file ended before the declared
	// triangle count was read.
	ErrTruncatedFile = errors.New("truncated STL file")
	// ErrMalformedVertexLine means an ASCII facet block did not contain
	// three well-formed vertex lines in the expected positions.
	ErrMalformedVertexLine = errors.New("malformed vertex line")
	// ErrIOFailure wraps errors from opening or reading the file.
	ErrIOFailure = errors.New("I/O failure")
	// ErrMeshNotLoaded is returned by measurements when no triangles are loaded.
	ErrMeshNotLoaded = errors.New("no triangles loaded")
	// ErrNonPositiveMass is returned by Mass when volume × density <= 0,
	// typically for an inverted mesh.
	ErrNonPositiveMass = errors.New("mass could not be calculated")
)
