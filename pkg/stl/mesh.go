package stl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/stlcalc/pkg/geometry"
)

// Mesh is a decoded STL solid. It is not modified after decoding.
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle
	// Count is len(Triangles) for a decoded mesh and -1 for the unloaded mesh.
	Count    int
	Encoding Encoding
}

// unloaded returns the mesh an Engine holds before a successful load.
func unloaded() *Mesh {
	return &Mesh{Count: -1}
}

// Parse reads an STL file and returns a Mesh.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %w", ErrIOFailure, err)
	}
	defer file.Close()

	mesh, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// Decode detects the encoding from the first bytes of r and decodes the rest.
func Decode(r io.Reader) (*Mesh, error) {
	br := bufio.NewReader(r)

	encoding, err := detect(br)
	if err != nil {
		return nil, err
	}

	if encoding == Text {
		return decodeASCII(br)
	}
	return decodeBinary(br)
}

// Loaded reports whether the mesh has any triangles to measure.
func (m *Mesh) Loaded() bool {
	return len(m.Triangles) > 0
}

// SignedVolume sums the signed tetrahedron volumes of all facets, in cubic
// file units. A closed mesh with outward winding gives a positive result.
func (m *Mesh) SignedVolume() float64 {
	total := 0.0
	for _, triangle := range m.Triangles {
		total += triangle.SignedVolume()
	}
	return total
}

// SurfaceArea calculates the total surface area of the mesh in square file units
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, triangle := range m.Triangles {
		total += triangle.Area()
	}
	return total
}

// BoundingBox calculates the bounding box of the entire mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.ExtendTriangle(triangle)
	}
	return bbox
}
