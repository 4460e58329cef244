package mapgen_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegen/internal/mapgen"
	"scenegen/internal/scene"
)

func positions(entities []scene.Entity) []scene.Vector3 {
	out := make([]scene.Vector3, len(entities))
	for i, e := range entities {
		out[i] = e.Position()
	}
	return out
}

func TestTileGrid(t *testing.T) {
	t.Run("enumerates z fastest and x slowest", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(2, 0, 2), scene.Vec(1, 0, 1))
		want := []scene.Vector3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}}
		assert.Equal(t, want, positions(got))
	})
	t.Run("all-zero box yields one tile at corner0", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(0, 0, 0), scene.Vec(0, 0, 0))
		assert.Equal(t, []scene.Vector3{{0, 0, 0}}, positions(got))
	})
	t.Run("line along one axis", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(0, 0, 6), scene.Vec(0, 0, 2))
		want := []scene.Vector3{{0, 0, 0}, {0, 0, 2}, {0, 0, 4}}
		assert.Equal(t, want, positions(got))
	})
	t.Run("full volume", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(2, 3, 4), scene.Vec(1, 1, 1))
		assert.Len(t, got, 2*3*4)
		assert.Equal(t, scene.Vec(1, 2, 3), got[len(got)-1].Position())
	})
	t.Run("positions are offset from corner0", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(10, 5, -1), scene.Vec(12, 5, -1), scene.Vec(1, 0, 0))
		assert.Equal(t, []scene.Vector3{{10, 5, -1}, {11, 5, -1}}, positions(got))
	})
	t.Run("zero step on a non-empty axis collapses it", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(5, 5, 5), scene.Vec(0, 0, 0))
		assert.Equal(t, []scene.Vector3{{0, 0, 0}}, positions(got))
	})
	t.Run("negative extent with positive step yields nothing", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(4, 0, 0), scene.Vec(0, 0, 2), scene.Vec(1, 0, 1))
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
	t.Run("negative extent with negative step walks backwards", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(2, 0, 0), scene.Vec(0, 0, 0), scene.Vec(-1, 0, 0))
		assert.Equal(t, []scene.Vector3{{2, 0, 0}, {1, 0, 0}}, positions(got))
	})
	t.Run("fractional count keeps the partial step", func(t *testing.T) {
		got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(2.5, 0, 0), scene.Vec(1, 0, 0))
		assert.Equal(t, []scene.Vector3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, positions(got))
	})
	t.Run("every tile is static and carries the model", func(t *testing.T) {
		got := mapgen.TileGrid("models/floor", scene.Vec(0, 0, 0), scene.Vec(3, 0, 3), scene.Vec(1, 0, 1))
		require.NotEmpty(t, got)
		for _, e := range got {
			assert.Equal(t, "models/floor", e.Renderable)
			require.NotNil(t, e.Physics)
			assert.Equal(t, "models/floor", e.Physics.Model)
			assert.False(t, e.Physics.Dynamic)
		}
	})
	t.Run("identical arguments yield identical grids", func(t *testing.T) {
		a := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(3, 2, 1), scene.Vec(1, 1, 0.5))
		b := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(3, 2, 1), scene.Vec(1, 1, 0.5))
		assert.Equal(t, a, b)
		a[0].Transform.Translate = scene.Vec(9, 9, 9)
		assert.Equal(t, scene.Vec(0, 0, 0), b[0].Position())
	})
}

func TestTileGridNonEmpty(t *testing.T) {
	cases := []struct {
		c0, c1, step scene.Vector3
	}{
		{scene.Vec(0, 0, 0), scene.Vec(0, 0, 0), scene.Vec(1, 1, 1)},
		{scene.Vec(-3, 0, 0), scene.Vec(3, 0, 0), scene.Vec(2, 0, 0)},
		{scene.Vec(1, 1, 1), scene.Vec(1, 4, 1), scene.Vec(0, 0.5, 0)},
		{scene.Vec(0, 0, 0), scene.Vec(0.1, 0.2, 0.3), scene.Vec(0.1, 0.1, 0.1)},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%v..%v step %v", c.c0, c.c1, c.step), func(t *testing.T) {
			got := mapgen.TileGrid("box", c.c0, c.c1, c.step)
			assert.NotEmpty(t, got)
			assert.Equal(t, c.c0, got[0].Position())
		})
	}
}

func TestTileGridConcurrent(t *testing.T) {
	want := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(4, 4, 4), scene.Vec(1, 1, 1))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := mapgen.TileGrid("box", scene.Vec(0, 0, 0), scene.Vec(4, 4, 4), scene.Vec(1, 1, 1))
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestTranslate(t *testing.T) {
	in := []scene.Entity{
		mapgen.Tile("box", scene.Vec(1, 1, 1)),
		{Name: "marker"},
	}
	got := mapgen.Translate(in, scene.Vec(0, 10, 0))
	assert.Equal(t, []scene.Vector3{{1, 11, 1}, {0, 10, 0}}, positions(got))
	assert.Equal(t, scene.Vec(1, 1, 1), in[0].Position(), "input must not change")
	assert.Nil(t, in[1].Transform)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, scene.Vec(1, -1, 4), mapgen.Offset(scene.Vec(0, 0, 2), scene.Vec(1, -1, 2)))
}

func TestFillBox(t *testing.T) {
	box := scene.BoundingBox{Corner0: scene.Vec(2, 0, 0), Corner1: scene.Vec(0, 0, 0)}
	assert.Equal(t, scene.Vec(-2, 0, 0), box.Delta())
	got := mapgen.FillBox("m", box, scene.Vec(-1, 1, 1))
	assert.Equal(t, []scene.Vector3{scene.Vec(2, 0, 0), scene.Vec(1, 0, 0)}, positions(got))
}
