package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(1, -2, 3))
	bbox.Extend(NewVector3(-4, 5, 0))
	bbox.Extend(NewVector3(2, 0, -1))

	if bbox.Min != NewVector3(-4, -2, -1) {
		t.Errorf("Min failed: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(2, 5, 3) {
		t.Errorf("Max failed: got %v", bbox.Max)
	}

	size := bbox.Size()
	if size != NewVector3(6, 7, 4) {
		t.Errorf("Size failed: got %v", size)
	}
}

func TestBoundingBoxSinglePoint(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(5, 5, 5))

	if bbox.Empty() {
		t.Fatal("box with one point reported empty")
	}
	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("Size of a point box: expected zero, got %v", size)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Fatal("new box should be empty")
	}
	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("Size of an empty box: expected zero, got %v", size)
	}
}

func TestBoundingBoxExtendTriangle(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.ExtendTriangle(NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 12),
	))

	if math.Abs(bbox.Diagonal()-13) > 1e-10 {
		t.Errorf("Diagonal failed: expected 13, got %v", bbox.Diagonal())
	}
	if c := bbox.Center(); c != NewVector3(1.5, 2, 6) {
		t.Errorf("Center failed: got %v", c)
	}
}
