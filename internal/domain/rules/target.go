package rules

import (
	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
)

// FindTarget casts a ray from the camera along its forward vector and
// returns the nearest interactable whose box it hits within maxRange, or
// nil. Candidates are scanned in build order with a strict distance
// comparison, so coincident geometry resolves to the same object on every
// call for the same pose.
func FindTarget(pose player.Pose, eyeHeight, maxRange float64, objects []*world.Object) *world.Object {
	ray := geom.Ray{
		Origin:    pose.Eye(eyeHeight),
		Direction: geom.Forward(pose.Yaw, pose.Pitch),
	}

	var best *world.Object
	bestDist := 0.0
	for _, obj := range objects {
		dist, ok := ray.IntersectBox(obj.Box)
		if !ok || dist > maxRange {
			continue
		}
		if best == nil || dist < bestDist {
			best = obj
			bestDist = dist
		}
	}
	return best
}
