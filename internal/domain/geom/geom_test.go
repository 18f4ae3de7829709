package geom

import (
	"math"
	"testing"
)

func TestBoxIntersects(t *testing.T) {
	a := BoxAt(Vec3{0, 1, 0}, 2, 2, 2)
	b := BoxAt(Vec3{1.5, 1, 0}, 2, 2, 2)
	c := BoxAt(Vec3{5, 1, 0}, 2, 2, 2)

	if !a.Intersects(b) {
		t.Errorf("Expected overlapping boxes to intersect")
	}
	if a.Intersects(c) {
		t.Errorf("Expected distant boxes not to intersect")
	}

	// Touching faces do not count as overlap
	d := BoxAt(Vec3{2, 1, 0}, 2, 2, 2)
	if a.Intersects(d) {
		t.Errorf("Expected face-touching boxes not to intersect")
	}
}

func TestRayHitsBoxAhead(t *testing.T) {
	box := BoxAt(Vec3{0, 1, -5}, 1, 2, 1)
	ray := Ray{Origin: Vec3{0, 1, 0}, Direction: Vec3{0, 0, -1}}

	dist, ok := ray.IntersectBox(box)
	if !ok {
		t.Fatalf("Expected ray to hit box in front of it")
	}
	if math.Abs(dist-4.5) > 1e-9 {
		t.Errorf("Expected hit distance 4.5, got %f", dist)
	}
}

func TestRayMissesBoxBehind(t *testing.T) {
	box := BoxAt(Vec3{0, 1, 5}, 1, 2, 1)
	ray := Ray{Origin: Vec3{0, 1, 0}, Direction: Vec3{0, 0, -1}}

	if _, ok := ray.IntersectBox(box); ok {
		t.Errorf("Expected ray to miss box behind the origin")
	}
}

func TestRayInsideBox(t *testing.T) {
	box := BoxAt(Vec3{0, 1, 0}, 4, 4, 4)
	ray := Ray{Origin: Vec3{0, 1, 0}, Direction: Vec3{0, 0, -1}}

	dist, ok := ray.IntersectBox(box)
	if !ok || dist != 0 {
		t.Errorf("Expected zero-distance hit from inside the box, got %f ok=%v", dist, ok)
	}
}

func TestForwardYawFrame(t *testing.T) {
	f := Forward(0, 0)
	if math.Abs(f.X) > 1e-9 || math.Abs(f.Z+1) > 1e-9 {
		t.Errorf("Expected yaw 0 to look down -Z, got %+v", f)
	}

	up := Forward(0, math.Pi/2)
	if math.Abs(up.Y-1) > 1e-9 {
		t.Errorf("Expected pitch +90 to look straight up, got %+v", up)
	}
}
