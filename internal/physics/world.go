package physics

import "scenegen/internal/scene"

// DefaultGravity pulls toward -Y.
var DefaultGravity = scene.Vec(0, -9.8, 0)

// World holds a set of bodies and runs a simple physics step: gravity, integration, AABB collision.
type World struct {
	Gravity scene.Vector3
	Bodies  []*Body
}

// NewWorld returns an empty world with DefaultGravity.
func NewWorld() *World {
	return &World{Gravity: DefaultGravity}
}

// FromScene returns a world with one body per entity that has a physics component.
// Entities that are not dynamic, or are kinematic, become static bodies.
func FromScene(entities []scene.Entity) *World {
	w := NewWorld()
	for i, e := range entities {
		if e.Physics == nil {
			continue
		}
		b := NewBody(e.Position(), e.Size(), 1, !e.Physics.Dynamic || e.Physics.Kinematic)
		b.Entity = i
		w.AddBody(b)
	}
	return w
}

// AddBody appends a body to the world. Order is preserved for syncing with scene entities.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// Apply writes body positions back into the entities they were made from.
func (w *World) Apply(entities []scene.Entity) {
	for _, b := range w.Bodies {
		if b.Static || b.Entity < 0 || b.Entity >= len(entities) {
			continue
		}
		e := &entities[b.Entity]
		if e.Transform == nil {
			e.Transform = &scene.Transform{}
		} else {
			t := *e.Transform
			e.Transform = &t
		}
		e.Transform.Translate = b.Position
	}
}

// penetration returns the overlap depth and axis (0=X, 1=Y, 2=Z) of minimum penetration
// between a and b. axis is -1 when they do not overlap.
func penetration(a, b *Body) (depth float64, axis int) {
	alo, ahi := a.AABB()
	blo, bhi := b.AABB()
	axis = -1
	for i := range 3 {
		o := min(ahi[i], bhi[i]) - max(alo[i], blo[i])
		if o <= 0 {
			return 0, -1
		}
		if axis < 0 || o < depth {
			depth, axis = o, i
		}
	}
	return depth, axis
}

// Step advances the simulation by dt seconds: apply gravity, integrate, then resolve collisions.
// There is no floor: dynamic bodies fall until they hit another body.
func (w *World) Step(dt float64) {
	for _, b := range w.Bodies {
		if b.Static {
			continue
		}
		for i := range 3 {
			b.Velocity[i] += w.Gravity[i] * dt
			b.Position[i] += b.Velocity[i] * dt
		}
	}

	for i := 0; i < len(w.Bodies); i++ {
		bi := w.Bodies[i]
		for j := i + 1; j < len(w.Bodies); j++ {
			bj := w.Bodies[j]
			if bi.Static && bj.Static {
				continue
			}
			depth, axis := penetration(bi, bj)
			if axis < 0 {
				continue
			}
			// push bi toward its side of bj
			dir := 1.0
			if bi.Position[axis] < bj.Position[axis] {
				dir = -1
			}
			var moveI, moveJ float64
			switch {
			case bi.Static:
				moveJ = -dir * depth
			case bj.Static:
				moveI = dir * depth
			default:
				total := bi.Mass + bj.Mass
				moveI = dir * depth * (bj.Mass / total)
				moveJ = -dir * depth * (bi.Mass / total)
			}
			bi.Position[axis] += moveI
			bj.Position[axis] += moveJ
			if !bi.Static {
				bi.Velocity[axis] = 0
			}
			if !bj.Static {
				bj.Velocity[axis] = 0
			}
		}
	}
}
