// Package scene defines the scene document written by the pipeline and read by the viewer.
package scene

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Vector3 is an (x, y, z) triple. It encodes as a JSON array.
type Vector3 [3]float64

// Vec returns the vector (x, y, z).
func Vec(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// X returns the first component.
func (v Vector3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vector3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vector3) Z() float64 { return v[2] }

// Add returns v + o componentwise.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o componentwise.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector3) String() string {
	return fmt.Sprintf("[%g,%g,%g]", v[0], v[1], v[2])
}

// BoundingBox is a pair of opposite corners. Corner0 need not be the minimum corner.
type BoundingBox struct {
	Corner0 Vector3
	Corner1 Vector3
}

// Delta returns Corner1 - Corner0.
func (b BoundingBox) Delta() Vector3 {
	return b.Corner1.Sub(b.Corner0)
}

// Transform places an entity in the world.
// Rotate is [degrees, axisX, axisY, axisZ].
type Transform struct {
	Translate Vector3     `json:"translate"`
	Scale     *Vector3    `json:"scale,omitempty"`
	Rotate    *[4]float64 `json:"rotate,omitempty"`
}

// Physics describes the collision body of an entity.
// The engine treats bodies as dynamic unless told otherwise, so Dynamic defaults to true when decoding.
type Physics struct {
	Model     string `json:"model"`
	Dynamic   bool   `json:"dynamic"`
	Kinematic bool   `json:"kinematic,omitempty"`
}

func (p *Physics) UnmarshalJSON(data []byte) error {
	type plain Physics
	v := plain{Dynamic: true}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Physics(v)
	return nil
}

// Entity is one placed object: its visual model, where it is, and how it collides.
type Entity struct {
	Name       string     `json:"name,omitempty"`
	Renderable string     `json:"renderable,omitempty"`
	Transform  *Transform `json:"transform,omitempty"`
	Physics    *Physics   `json:"physics,omitempty"`
}

// Position returns the entity translation, or the origin when it has no transform.
func (e Entity) Position() Vector3 {
	if e.Transform == nil {
		return Vector3{}
	}
	return e.Transform.Translate
}

// Size returns the entity scale, defaulting to 1 on every axis.
// Zero components are also treated as 1.
func (e Entity) Size() Vector3 {
	s := Vector3{1, 1, 1}
	if e.Transform == nil || e.Transform.Scale == nil {
		return s
	}
	for i, c := range e.Transform.Scale {
		if c != 0 {
			s[i] = c
		}
	}
	return s
}

// Scene is a complete scene document. Keys starting with "_" are comments and are ignored.
type Scene struct {
	Priority   string         `json:"priority,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Entities   []Entity       `json:"entities"`
}
