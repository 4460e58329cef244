package render

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"scenegen/internal/mapgen"
	"scenegen/internal/scene"
)

// Funcs returns the functions available to every scene template.
// A fresh map is returned on each call; nothing is shared between renderers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"vec":       vec,
		"offset":    mapgen.Offset,
		"tiles":     mapgen.TileGrid,
		"box":       box,
		"fill":      mapgen.FillBox,
		"terrain":   terrain,
		"translate": mapgen.Translate,
		"concat":    concat,
		"json":      toJSON,
		"jsonItems": jsonItems,
		"add":       add,
		"sub":       sub,
		"mul":       mul,
		"div":       div,
		"seq":       seq,
	}
}

func vec(x, y, z any) (scene.Vector3, error) {
	var v scene.Vector3
	for i, c := range []any{x, y, z} {
		f, err := toFloat(c)
		if err != nil {
			return v, fmt.Errorf("vec: component %d: %w", i, err)
		}
		v[i] = f
	}
	return v, nil
}

func box(corner0, corner1 scene.Vector3) scene.BoundingBox {
	return scene.BoundingBox{Corner0: corner0, Corner1: corner1}
}

// terrain takes the model followed by option key/value pairs,
// e.g. terrain "rock" "width" 16 "depth" 16 "seed" 7.
func terrain(model string, kv ...any) ([]scene.Entity, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("terrain: odd number of option arguments")
	}
	opts := mapgen.DefaultTerrainOptions()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("terrain: option name %v is not a string", kv[i])
		}
		f, err := toFloat(kv[i+1])
		if err != nil {
			return nil, fmt.Errorf("terrain: %s: %w", key, err)
		}
		switch key {
		case "width":
			opts.Width = int(f)
		case "depth":
			opts.Depth = int(f)
		case "tileSize":
			opts.TileSize = f
		case "heightScale":
			opts.HeightScale = f
		case "seed":
			opts.Seed = int64(f)
		case "octaves":
			opts.Octaves = int(f)
		case "frequency":
			opts.Frequency = f
		case "lacunarity":
			opts.Lacunarity = f
		case "gain":
			opts.Gain = f
		default:
			return nil, fmt.Errorf("terrain: unknown option %q", key)
		}
	}
	return mapgen.Terrain(model, opts), nil
}

func concat(lists ...[]scene.Entity) []scene.Entity {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]scene.Entity, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// jsonItems encodes each element of a slice and joins them with commas, without the
// surrounding brackets, so generated entities can be spliced into a hand written array.
func jsonItems(list any) (string, error) {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("jsonItems: expected a list, got %T", list)
	}
	items := make([]string, rv.Len())
	for i := range items {
		data, err := json.Marshal(rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		items[i] = string(data)
	}
	return strings.Join(items, ",\n"), nil
}

func add(a, b any) (float64, error) {
	x, y, err := floats(a, b)
	return x + y, err
}

func sub(a, b any) (float64, error) {
	x, y, err := floats(a, b)
	return x - y, err
}

func mul(a, b any) (float64, error) {
	x, y, err := floats(a, b)
	return x * y, err
}

func div(a, b any) (float64, error) {
	x, y, err := floats(a, b)
	if err != nil {
		return 0, err
	}
	if y == 0 {
		return 0, fmt.Errorf("div: division by zero")
	}
	return x / y, nil
}

// seq returns 0, 1, ..., n-1 for use with range.
func seq(n any) ([]int, error) {
	f, err := toFloat(n)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, max(int(f), 0))
	for i := 0; i < int(f); i++ {
		out = append(out, i)
	}
	return out, nil
}

func floats(a, b any) (float64, float64, error) {
	x, err := toFloat(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := toFloat(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// toFloat accepts any number template arguments arrive as, including numeric strings.
func toFloat(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("not a number: nil")
	}
	return cast.ToFloat64E(v)
}
