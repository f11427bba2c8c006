package stl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stlcalc/pkg/geometry"
)

const (
	// RecordSize is the size of one binary facet: normal, three vertices and
	// the attribute byte count.
	RecordSize = 50

	// preallocLimit caps the capacity reserved up front from the declared
	// count, so a corrupt count cannot force a huge allocation.
	preallocLimit = 1 << 16
)

// decodeBinary reads the header, the little-endian triangle count and exactly
// count 50-byte records.
func decodeBinary(r io.Reader) (*Mesh, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, shortRead(err, "header")
	}

	var countField [4]byte
	if _, err := io.ReadFull(r, countField[:]); err != nil {
		return nil, shortRead(err, "triangle count")
	}
	count := binary.LittleEndian.Uint32(countField[:])

	mesh := &Mesh{
		Name:      headerName(header),
		Encoding:  Binary,
		Triangles: make([]geometry.Triangle, 0, min(int(count), preallocLimit)),
	}

	var record [RecordSize]byte
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, record[:]); err != nil {
			return nil, shortRead(err, fmt.Sprintf("triangle %d of %d", i, count))
		}
		mesh.Triangles = append(mesh.Triangles, decodeRecord(record[:]))
	}

	mesh.Count = len(mesh.Triangles)
	return mesh, nil
}

// decodeRecord converts one record; the normal (bytes 0-12) and attribute
// (bytes 48-50) are discarded.
func decodeRecord(record []byte) geometry.Triangle {
	return geometry.NewTriangle(
		readVertex(record[12:24]),
		readVertex(record[24:36]),
		readVertex(record[36:48]),
	)
}

func readVertex(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	)
}

func shortRead(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of file reading %s", ErrTruncatedFile, what)
	}
	return fmt.Errorf("%w: failed to read %s: %w", ErrIOFailure, what, err)
}
