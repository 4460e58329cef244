// Package physics runs a small rigid body simulation over axis aligned boxes.
package physics

import "scenegen/internal/scene"

// Body is a rigid body with position, velocity, and an AABB sized by Size.
// Static bodies do not move and are not affected by gravity.
type Body struct {
	Entity   int // index of the entity the body was made from; -1 if none
	Position scene.Vector3
	Velocity scene.Vector3
	Size     scene.Vector3
	Mass     float64
	Static   bool
}

// NewBody returns a body with the given position and size. Velocity is zero.
// mass is used for collision response; values <= 0 mean 1.
func NewBody(position, size scene.Vector3, mass float64, static bool) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{Entity: -1, Position: position, Size: size, Mass: mass, Static: static}
}

// AABB returns the corners of the body's box. A zero size component counts as 1.
func (b *Body) AABB() (lo, hi scene.Vector3) {
	for i := range 3 {
		half := b.Size[i] * 0.5
		if b.Size[i] == 0 {
			half = 0.5
		}
		lo[i] = b.Position[i] - half
		hi[i] = b.Position[i] + half
	}
	return lo, hi
}
