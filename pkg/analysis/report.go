package analysis

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stlcalc/pkg/geometry"
	"github.com/philipparndt/stlcalc/pkg/material"
	"github.com/philipparndt/stlcalc/pkg/stl"
)

// Report collects every measurement of a loaded mesh
type Report struct {
	Name          string
	Encoding      stl.Encoding
	TriangleCount int
	Volume        float64 // cm³
	VolumeInch3   float64 // in³
	SurfaceArea   float64 // cm²
	Dimensions    geometry.Vector3
	BoundingBox   geometry.BoundingBox // mm
	// Edge lengths in mm, counted per facet side; shared edges count twice.
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Material      material.Entry
	// Mass is in grams; it is -1 when MassErr is set.
	Mass    float64
	MassErr error
}

// Analyze measures the engine's current mesh. A mass that cannot be
// calculated is recorded in MassErr rather than failing the whole report.
func Analyze(engine *stl.Engine, mat material.Entry) (*Report, error) {
	count, err := engine.Triangles()
	if err != nil {
		return nil, err
	}
	volume, err := engine.Volume()
	if err != nil {
		return nil, err
	}
	area, err := engine.Area()
	if err != nil {
		return nil, err
	}
	dims, err := engine.Dimensions()
	if err != nil {
		return nil, err
	}

	mesh := engine.Mesh()
	report := &Report{
		Name:          mesh.Name,
		Encoding:      mesh.Encoding,
		TriangleCount: count,
		Volume:        volume,
		VolumeInch3:   stl.CM3ToInch3(volume),
		SurfaceArea:   area,
		Dimensions:    dims,
		BoundingBox:   mesh.BoundingBox(),
		Material:      mat,
	}
	report.MinEdgeLength, report.MaxEdgeLength, report.AvgEdgeLength = edgeStats(mesh.Triangles)

	report.Mass, err = engine.Mass(mat.Density)
	if err != nil {
		if !errors.Is(err, stl.ErrNonPositiveMass) {
			return nil, err
		}
		report.MassErr = err
	}

	return report, nil
}

func edgeStats(triangles []geometry.Triangle) (minLen, maxLen, avgLen float64) {
	if len(triangles) == 0 {
		return 0, 0, 0
	}

	minLen = math.Inf(1)
	var total float64
	for _, tri := range triangles {
		for _, length := range tri.EdgeLengths() {
			minLen = min(minLen, length)
			maxLen = max(maxLen, length)
		}
		total += tri.Perimeter()
	}
	return minLen, maxLen, total / float64(3*len(triangles))
}

// Print writes the report in the CLI's plain-text layout.
func (r *Report) Print(w io.Writer, inch bool) {
	fmt.Fprintln(w, "STL File Information")
	fmt.Fprintln(w, "====================")
	if r.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", r.Name)
	}
	fmt.Fprintf(w, "Format: %s\n", r.Encoding)
	fmt.Fprintf(w, "Triangles: %d\n\n", r.TriangleCount)

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Length (X): %s\n", FormatMeasurement(r.Dimensions.X, "mm"))
	fmt.Fprintf(w, "  Width (Y): %s\n", FormatMeasurement(r.Dimensions.Y, "mm"))
	fmt.Fprintf(w, "  Height (Z): %s\n\n", FormatMeasurement(r.Dimensions.Z, "mm"))

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", FormatVector(r.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", FormatVector(r.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n", FormatVector(r.BoundingBox.Center()))
	fmt.Fprintf(w, "  Diagonal: %s\n\n", FormatMeasurement(r.BoundingBox.Diagonal(), "mm"))

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %s\n", FormatMeasurement(r.MinEdgeLength, "mm"))
	fmt.Fprintf(w, "  Maximum: %s\n", FormatMeasurement(r.MaxEdgeLength, "mm"))
	fmt.Fprintf(w, "  Average: %s\n\n", FormatMeasurement(r.AvgEdgeLength, "mm"))

	fmt.Fprintf(w, "Volume: %s\n", FormatMeasurement(r.Volume, "cm³"))
	if inch {
		fmt.Fprintf(w, "Volume: %s\n", FormatMeasurement(r.VolumeInch3, "in³"))
	}
	fmt.Fprintf(w, "Surface Area: %s\n", FormatMeasurement(r.SurfaceArea, "cm²"))

	fmt.Fprintf(w, "Material: %s (%.2f g/cm³)\n", r.Material.Name, r.Material.Density)
	if r.MassErr != nil {
		fmt.Fprintln(w, "Mass: could not be calculated (check the mesh winding)")
	} else {
		fmt.Fprintf(w, "Mass: %s\n", FormatMeasurement(r.Mass, "g"))
	}
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
