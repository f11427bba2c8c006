package geometry

// Triangle is one facet of a mesh. Vertex order is significant: a facet wound
// counter-clockwise when seen from outside the solid has a positive signed
// volume.
type Triangle struct {
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(v1, v2, v3 Vector3) Triangle {
	return Triangle{V1: v1, V2: v2, V3: v3}
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Length() / 2.0
}

// SignedVolume returns the signed volume of the tetrahedron spanned by the
// origin and the three vertices.
//
// Each vXYZ term multiplies the x of vertex X, the y of vertex Y and the z of
// vertex Z; the sum is the cofactor expansion of det[V1 V2 V3].
func (t Triangle) SignedVolume() float64 {
	p1, p2, p3 := t.V1, t.V2, t.V3

	v321 := p3.X * p2.Y * p1.Z
	v231 := p2.X * p3.Y * p1.Z
	v312 := p3.X * p1.Y * p2.Z
	v132 := p1.X * p3.Y * p2.Z
	v213 := p2.X * p1.Y * p3.Z
	v123 := p1.X * p2.Y * p3.Z

	return (1.0 / 6.0) * (-v321 + v231 + v312 - v132 - v213 + v123)
}

// Reversed returns the triangle with the opposite winding
func (t Triangle) Reversed() Triangle {
	return Triangle{V1: t.V1, V2: t.V3, V3: t.V2}
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}
