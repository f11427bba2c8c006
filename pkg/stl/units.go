package stl

const (
	// cubic inches per cubic centimetre
	inch3PerCM3 = 0.0610237441

	mm3PerCM3 = 1000.0
	mm2PerCM2 = 100.0
)

// CM3ToInch3 converts a volume from cubic centimetres to cubic inches.
func CM3ToInch3(v float64) float64 {
	return v * inch3PerCM3
}

// Inch3ToCM3 converts a volume from cubic inches to cubic centimetres.
func Inch3ToCM3(v float64) float64 {
	return v / inch3PerCM3
}
