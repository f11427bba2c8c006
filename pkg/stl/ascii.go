package stl

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/philipparndt/stlcalc/pkg/geometry"
)

// facetLines is the number of lines in one facet block:
//
//	facet normal nx ny nz
//	  outer loop
//	    vertex x y z (three times)
//	  endloop
//	endfacet
const facetLines = 7

const maxLineLength = 1024 * 1024

// numberPattern matches a signed decimal with optional fraction and exponent.
var numberPattern = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// decodeASCII parses a text STL. Blocks must follow the seven-line layout
// exactly; anything else inside a block is rejected rather than recovered.
func decodeASCII(r io.Reader) (*Mesh, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	mesh := &Mesh{Encoding: Text, Triangles: make([]geometry.Triangle, 0)}

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if mesh.Name == "" && strings.HasPrefix(line, "solid") {
			mesh.Name = strings.TrimSpace(strings.TrimPrefix(line, "solid"))
		}

		if !strings.HasPrefix(line, "facet") {
			i++
			continue
		}

		triangle, err := parseFacet(lines, i)
		if err != nil {
			return nil, err
		}
		mesh.Triangles = append(mesh.Triangles, triangle)
		i += facetLines
	}

	mesh.Count = len(mesh.Triangles)
	return mesh, nil
}

// parseFacet reads the block whose "facet" line is at index start.
func parseFacet(lines []string, start int) (geometry.Triangle, error) {
	if start+facetLines > len(lines) {
		return geometry.Triangle{}, fmt.Errorf("%w: facet at line %d is cut short", ErrMalformedVertexLine, start+1)
	}

	expect := func(offset int, keyword string) error {
		if !hasKeyword(lines[start+offset], keyword) {
			return fmt.Errorf("%w: line %d: expected %q, got %q",
				ErrMalformedVertexLine, start+offset+1, keyword, strings.TrimSpace(lines[start+offset]))
		}
		return nil
	}

	if err := expect(1, "outer loop"); err != nil {
		return geometry.Triangle{}, err
	}

	var vertices [3]geometry.Vector3
	for k := range vertices {
		offset := 2 + k
		if err := expect(offset, "vertex"); err != nil {
			return geometry.Triangle{}, err
		}
		v, err := parseVertex(lines[start+offset])
		if err != nil {
			return geometry.Triangle{}, fmt.Errorf("line %d: %w", start+offset+1, err)
		}
		vertices[k] = v
	}

	if err := expect(5, "endloop"); err != nil {
		return geometry.Triangle{}, err
	}
	if err := expect(6, "endfacet"); err != nil {
		return geometry.Triangle{}, err
	}

	return geometry.NewTriangle(vertices[0], vertices[1], vertices[2]), nil
}

// hasKeyword reports whether the leading fields of line are the words of
// keyword, so "outer\tloop" matches "outer loop".
func hasKeyword(line, keyword string) bool {
	fields := strings.Fields(line)
	words := strings.Fields(keyword)
	if len(fields) < len(words) {
		return false
	}
	for i, w := range words {
		if fields[i] != w {
			return false
		}
	}
	return true
}

// parseVertex takes the first three numbers on the line as x, y, z.
// Additional tokens are ignored.
func parseVertex(line string) (geometry.Vector3, error) {
	tokens := numberPattern.FindAllString(line, 3)
	if len(tokens) < 3 {
		return geometry.Vector3{}, fmt.Errorf("%w: found %d coordinates in %q",
			ErrMalformedVertexLine, len(tokens), strings.TrimSpace(line))
	}

	var coords [3]float64
	for i, token := range tokens {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("%w: coordinate %q: %w", ErrMalformedVertexLine, token, err)
		}
		coords[i] = f
	}

	return geometry.NewVector3(coords[0], coords[1], coords[2]), nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading ASCII STL: %w", ErrIOFailure, err)
	}
	return lines, nil
}
