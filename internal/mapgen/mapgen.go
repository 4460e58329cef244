// Package mapgen generates repeated scene entities: tile grids spanning a box, and noise terrain.
// All functions are pure and safe to call from multiple goroutines.
package mapgen

import (
	"math"

	"scenegen/internal/scene"
)

// TileGrid fills the box from corner0 towards corner1 with static tiles of the given model,
// spaced by step on each axis.
//
// An axis whose extent or step is zero yields a single slice at corner0, so lines and planes
// work as well as volumes. Otherwise the axis yields positions i*step for every i >= 0 with
// i < extent/step. The division is not required to be exact: a fractional bound keeps the
// last partial step, and a negative bound (extent and step of opposite sign) yields no
// positions at all, which empties the whole grid.
//
// Tiles are ordered with x outermost and z innermost (z varies fastest).
func TileGrid(model string, corner0, corner1, step scene.Vector3) []scene.Entity {
	var bound [3]float64
	for a := range 3 {
		bound[a] = axisBound(corner1[a]-corner0[a], step[a])
	}

	tiles := make([]scene.Entity, 0, capHint(bound))
	for ix := 0; float64(ix) < bound[0]; ix++ {
		for iy := 0; float64(iy) < bound[1]; iy++ {
			for iz := 0; float64(iz) < bound[2]; iz++ {
				pos := scene.Vector3{
					corner0[0] + float64(ix)*step[0],
					corner0[1] + float64(iy)*step[1],
					corner0[2] + float64(iz)*step[2],
				}
				tiles = append(tiles, Tile(model, pos))
			}
		}
	}
	return tiles
}

// FillBox is TileGrid over box.
func FillBox(model string, box scene.BoundingBox, step scene.Vector3) []scene.Entity {
	return TileGrid(model, box.Corner0, box.Corner1, step)
}

// Tile returns one static entity of the given model at pos.
func Tile(model string, pos scene.Vector3) scene.Entity {
	return scene.Entity{
		Renderable: model,
		Transform:  &scene.Transform{Translate: pos},
		Physics:    &scene.Physics{Model: model, Dynamic: false},
	}
}

// axisBound returns the exclusive loop bound for one axis.
func axisBound(delta, step float64) float64 {
	if delta == 0 || step == 0 {
		return 1
	}
	return delta / step
}

// maxPrealloc caps the capacity reserved up front.
const maxPrealloc = 1 << 16

// capHint returns the number of tiles the bounds produce, or maxPrealloc if that is larger.
func capHint(bound [3]float64) int {
	n := 1.0
	for _, b := range bound {
		if !(b > 0) {
			return 0
		}
		n *= math.Ceil(b)
	}
	return int(min(n, maxPrealloc))
}

// Offset returns base shifted by d.
func Offset(base, d scene.Vector3) scene.Vector3 {
	return base.Add(d)
}

// Translate returns a copy of entities with every translation shifted by d.
// Entities without a transform get one at d. The input slice is not modified.
func Translate(entities []scene.Entity, d scene.Vector3) []scene.Entity {
	out := make([]scene.Entity, len(entities))
	for i, e := range entities {
		var t scene.Transform
		if e.Transform != nil {
			t = *e.Transform
		}
		t.Translate = Offset(t.Translate, d)
		e.Transform = &t
		out[i] = e
	}
	return out
}
