package mapgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegen/internal/mapgen"
)

func TestTerrain(t *testing.T) {
	t.Run("one column per tile centered on the origin", func(t *testing.T) {
		opts := mapgen.DefaultTerrainOptions()
		opts.Width, opts.Depth = 4, 2
		got := mapgen.Terrain("rock", opts)
		require.Len(t, got, 8)
		first, last := got[0].Position(), got[7].Position()
		assert.Equal(t, -1.5, first.X())
		assert.Equal(t, -0.5, first.Z())
		assert.Equal(t, 1.5, last.X())
		assert.Equal(t, 0.5, last.Z())
	})
	t.Run("columns sit on the ground within the height scale", func(t *testing.T) {
		opts := mapgen.DefaultTerrainOptions()
		opts.Width, opts.Depth = 8, 8
		for _, e := range mapgen.Terrain("rock", opts) {
			h := e.Size().Y()
			assert.GreaterOrEqual(t, h, 0.15)
			assert.LessOrEqual(t, h, opts.HeightScale)
			assert.InDelta(t, h/2, e.Position().Y(), 1e-9)
			assert.False(t, e.Physics.Dynamic)
		}
	})
	t.Run("same seed is reproducible", func(t *testing.T) {
		opts := mapgen.DefaultTerrainOptions()
		opts.Width, opts.Depth = 6, 6
		assert.Equal(t, mapgen.Terrain("rock", opts), mapgen.Terrain("rock", opts))
	})
	t.Run("empty size yields nothing", func(t *testing.T) {
		assert.Nil(t, mapgen.Terrain("rock", mapgen.TerrainOptions{}))
	})
	t.Run("missing noise settings fall back to defaults", func(t *testing.T) {
		got := mapgen.Terrain("rock", mapgen.TerrainOptions{Width: 2, Depth: 2})
		require.Len(t, got, 4)
		assert.Equal(t, 1.0, got[0].Size().X())
	})
}
