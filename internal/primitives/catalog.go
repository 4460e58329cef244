// Package primitives describes how renderable models are drawn: which mesh kind, size and color.
package primitives

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"scenegen/internal/scene"
	"scenegen/internal/store"
)

// Mesh kinds the registry can draw.
const (
	Cube     = "cube"
	Sphere   = "sphere"
	Cylinder = "cylinder"
	Plane    = "plane"
)

// DefExt is the extension of primitive definition files.
const DefExt = ".yaml"

// Def is the YAML definition of how a renderable model is drawn (e.g. assets/primitives/crate.yaml).
// The model name is the file name without extension.
type Def struct {
	Type  string     `yaml:"type"`
	Size  [3]float64 `yaml:"size,omitempty"`
	Color string     `yaml:"color,omitempty"`
}

// Scale returns the size to draw an entity of size s with: s scaled by the def's size.
// A zero def size component counts as 1.
func (d Def) Scale(s scene.Vector3) scene.Vector3 {
	for i := range 3 {
		if d.Size[i] != 0 {
			s[i] *= d.Size[i]
		}
	}
	return s
}

// RGBA returns the def's color. An empty or malformed color yields grey.
func (d Def) RGBA() [4]uint8 {
	c, err := ParseColor(d.Color)
	if err != nil {
		return defaultColor
	}
	return c
}

var defaultColor = [4]uint8{128, 128, 128, 255}

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) ([4]uint8, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return defaultColor, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return defaultColor, fmt.Errorf("color %q: %w", s, err)
	}
	return [4]uint8{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Catalog maps renderable model names to primitive definitions.
// Models without a definition are drawn as grey unit cubes.
type Catalog struct {
	defs map[string]Def
}

// NewCatalog returns a catalog holding defs.
func NewCatalog(defs map[string]Def) *Catalog {
	c := &Catalog{defs: make(map[string]Def, len(defs))}
	for name, d := range defs {
		c.defs[name] = d.normalize()
	}
	return c
}

// LoadCatalog reads every definition in dir. A missing dir yields an empty catalog.
func LoadCatalog(st *store.Store, dir string) (*Catalog, error) {
	names, err := st.List(dir, DefExt)
	if store.IsNotExist(err) {
		return NewCatalog(nil), nil
	}
	if err != nil {
		return nil, err
	}
	defs := make(map[string]Def, len(names))
	for _, n := range names {
		data, err := st.Read(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("primitive %s: %w", n, err)
		}
		defs[strings.TrimSuffix(n, DefExt)] = d
	}
	return NewCatalog(defs), nil
}

// Lookup returns the definition for model.
func (c *Catalog) Lookup(model string) Def {
	if d, ok := c.defs[model]; ok {
		return d
	}
	if known(model) {
		return Def{Type: model}
	}
	return Def{Type: Cube}
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

func (d Def) normalize() Def {
	if !known(d.Type) {
		d.Type = Cube
	}
	return d
}

func known(kind string) bool {
	switch kind {
	case Cube, Sphere, Cylinder, Plane:
		return true
	}
	return false
}
