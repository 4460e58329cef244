package mapgen

import (
	"math"

	"scenegen/internal/scene"
)

// TerrainOptions controls procedural terrain generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum column height in world units.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
// The same Seed always produces the same terrain, so builds are reproducible.
type TerrainOptions struct {
	Width       int     `yaml:"width"`
	Depth       int     `yaml:"depth"`
	TileSize    float64 `yaml:"tileSize"`
	HeightScale float64 `yaml:"heightScale"`

	Seed       int64   `yaml:"seed"`
	Octaves    int     `yaml:"octaves"`
	Frequency  float64 `yaml:"frequency"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// DefaultTerrainOptions returns a sane default configuration.
func DefaultTerrainOptions() TerrainOptions {
	return TerrainOptions{
		Width:       32,
		Depth:       32,
		TileSize:    1.0,
		HeightScale: 3.0,
		Seed:        1,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

const minTerrainHeight = 0.15

// normalize replaces non-positive fields with defaults.
func (o TerrainOptions) normalize() TerrainOptions {
	d := DefaultTerrainOptions()
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale <= 0 {
		o.HeightScale = d.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = d.Octaves
	}
	if o.Frequency <= 0 {
		o.Frequency = d.Frequency
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = d.Lacunarity
	}
	if o.Gain <= 0 {
		o.Gain = d.Gain
	}
	return o
}

// Terrain builds a height field as a grid of static columns sitting on Y=0.
// Each tile becomes one entity whose Y scale is derived from fractal noise. Columns are
// centered around the world origin on XZ and ordered x outermost, z innermost like TileGrid.
func Terrain(model string, opts TerrainOptions) []scene.Entity {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts = opts.normalize()

	// First column center is at (-extentX + halfTile, -extentZ + halfTile).
	halfTile := opts.TileSize * 0.5
	startX := -float64(opts.Width)*halfTile + halfTile
	startZ := -float64(opts.Depth)*halfTile + halfTile

	cols := make([]scene.Entity, 0, opts.Width*opts.Depth)
	for x := 0; x < opts.Width; x++ {
		for z := 0; z < opts.Depth; z++ {
			h := fractalValueNoise2D(float64(x)*opts.Frequency, float64(z)*opts.Frequency, opts)
			height := minTerrainHeight + h*(opts.HeightScale-minTerrainHeight)
			if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
				height = minTerrainHeight
			}
			e := Tile(model, scene.Vector3{
				startX + float64(x)*opts.TileSize,
				height * 0.5, // bottom at Y=0
				startZ + float64(z)*opts.TileSize,
			})
			scale := scene.Vector3{opts.TileSize, height, opts.TileSize}
			e.Transform.Scale = &scale
			cols = append(cols, e)
		}
	}
	return cols
}

// fractalValueNoise2D layers smooth value noise. Output is in [0,1].
func fractalValueNoise2D(x, y float64, opts TerrainOptions) float64 {
	var sum, maxAmp float64
	amplitude, freq := 1.0, 1.0
	for i := 0; i < opts.Octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, uint32(opts.Seed)+uint32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= opts.Gain
		freq *= opts.Lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

func valueNoise2D(x, y float64, seed uint32) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int32(x0), int32(y0)

	v00 := hash2(seed, ix, iy)
	v10 := hash2(seed, ix+1, iy)
	v01 := hash2(seed, ix, iy+1)
	v11 := hash2(seed, ix+1, iy+1)

	sx := smoothStep(x - x0)
	sy := smoothStep(y - y0)
	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

// hash2 maps lattice coordinates to a stable value in [0,1].
func hash2(seed uint32, x, y int32) float64 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return float64(h) / math.MaxUint32
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
