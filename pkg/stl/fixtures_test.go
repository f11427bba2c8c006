package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/stlcalc/pkg/geometry"
	"github.com/stretchr/testify/require"
)

// cube returns the 12 facets of an axis-aligned cube with its minimum corner
// at origin, wound counter-clockwise when seen from outside.
func cube(origin geometry.Vector3, size float64) []geometry.Triangle {
	v := func(x, y, z float64) geometry.Vector3 {
		return origin.Add(geometry.NewVector3(x*size, y*size, z*size))
	}
	tri := geometry.NewTriangle

	return []geometry.Triangle{
		// bottom, -z
		tri(v(0, 0, 0), v(0, 1, 0), v(1, 1, 0)),
		tri(v(0, 0, 0), v(1, 1, 0), v(1, 0, 0)),
		// top, +z
		tri(v(0, 0, 1), v(1, 0, 1), v(1, 1, 1)),
		tri(v(0, 0, 1), v(1, 1, 1), v(0, 1, 1)),
		// front, -y
		tri(v(0, 0, 0), v(1, 0, 0), v(1, 0, 1)),
		tri(v(0, 0, 0), v(1, 0, 1), v(0, 0, 1)),
		// back, +y
		tri(v(0, 1, 0), v(0, 1, 1), v(1, 1, 1)),
		tri(v(0, 1, 0), v(1, 1, 1), v(1, 1, 0)),
		// left, -x
		tri(v(0, 0, 0), v(0, 0, 1), v(0, 1, 1)),
		tri(v(0, 0, 0), v(0, 1, 1), v(0, 1, 0)),
		// right, +x
		tri(v(1, 0, 0), v(1, 1, 0), v(1, 1, 1)),
		tri(v(1, 0, 0), v(1, 1, 1), v(1, 0, 1)),
	}
}

func reversed(triangles []geometry.Triangle) []geometry.Triangle {
	out := make([]geometry.Triangle, len(triangles))
	for i, t := range triangles {
		out[i] = t.Reversed()
	}
	return out
}

func putVector(buf *bytes.Buffer, v geometry.Vector3) {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(float32(c)))
	}
}

// encodeBinary writes a binary STL with a header padded to 80 bytes.
func encodeBinary(header string, triangles []geometry.Triangle) []byte {
	var buf bytes.Buffer

	h := make([]byte, HeaderSize)
	copy(h, header)
	buf.Write(h)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(triangles)))

	for _, t := range triangles {
		normal := t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))
		putVector(&buf, normal)
		putVector(&buf, t.V1)
		putVector(&buf, t.V2)
		putVector(&buf, t.V3)
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

// encodeASCII writes a text STL in the usual exporter layout using %e
// coordinates.
func encodeASCII(name string, triangles []geometry.Triangle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "solid %s\n", name)
	for _, t := range triangles {
		n := t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))
		fmt.Fprintf(&b, "  facet normal %e %e %e\n", n.X, n.Y, n.Z)
		b.WriteString("    outer loop\n")
		for _, v := range []geometry.Vector3{t.V1, t.V2, t.V3} {
			fmt.Fprintf(&b, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		b.WriteString("    endloop\n")
		b.WriteString("  endfacet\n")
	}
	fmt.Fprintf(&b, "endsolid %s\n", name)
	return b.String()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
