package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAt builds a Box centered on pos with the given full extents.
func BoxAt(pos Vec3, width, height, depth float64) Box {
	hw, hh, hd := width/2, height/2, depth/2
	return Box{
		Min: Vec3{pos.X - hw, pos.Y - hh, pos.Z - hd},
		Max: Vec3{pos.X + hw, pos.Y + hh, pos.Z + hd},
	}
}

// PlayerBox builds the player's collision box: a fixed-size box whose feet
// rest at floor level, with the given horizontal radius and height.
func PlayerBox(feet Vec3, radius, height float64) Box {
	return Box{
		Min: Vec3{feet.X - radius, feet.Y, feet.Z - radius},
		Max: Vec3{feet.X + radius, feet.Y + height, feet.Z + radius},
	}
}

// Intersects reports whether two boxes overlap on all three axes.
func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// Ray is a half-line from Origin along a unit Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// IntersectBox returns the distance along the ray to the nearest point of
// the box, using the slab method. ok is false when the ray misses or the
// box lies entirely behind the origin. A ray starting inside the box hits
// at distance 0.
func (r Ray) IntersectBox(b Box) (dist float64, ok bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	axes := [3][3]float64{
		{r.Origin.X, r.Direction.X, 0},
		{r.Origin.Y, r.Direction.Y, 0},
		{r.Origin.Z, r.Direction.Z, 0},
	}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		origin, dir := axes[i][0], axes[i][1]
		if dir == 0 {
			// Parallel to this slab: must already be inside it.
			if origin < mins[i] || origin > maxs[i] {
				return 0, false
			}
			continue
		}
		t1 := (mins[i] - origin) / dir
		t2 := (maxs[i] - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}
