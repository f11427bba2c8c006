package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox returns an empty box; the first Extend call sets both corners.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// ExtendTriangle expands the bounding box to include all vertices of t
func (b *BoundingBox) ExtendTriangle(t Triangle) {
	b.Extend(t.V1)
	b.Extend(t.V2)
	b.Extend(t.V3)
}

// Empty reports whether no point has been added yet
func (b BoundingBox) Empty() bool {
	return b.Min.X > b.Max.X
}

// Size returns the extent along each axis: length (X), width (Y), height (Z).
func (b BoundingBox) Size() Vector3 {
	if b.Empty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}
