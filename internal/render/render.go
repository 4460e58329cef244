// Package render turns scene templates into scene text using text/template.
package render

import (
	"bytes"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/goccy/go-yaml"

	"scenegen/internal/store"
)

// PartialExt is the extension of shared template fragments.
const PartialExt = ".partial"

// Error is a failure to parse or execute a template.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Context is the data a scene template executes against.
type Context struct {
	Name string         // template name without extension
	Vars map[string]any // configured vars overlaid with the template's sidecar file
}

// Renderer renders templates read from a store.
// It is safe for concurrent use once partials are loaded.
type Renderer struct {
	st       *store.Store
	partials map[string]string
}

// New returns a renderer that reads templates from st.
func New(st *store.Store) *Renderer {
	return &Renderer{st: st, partials: make(map[string]string)}
}

// LoadPartials reads every partial in dir, replacing any loaded before.
// Each partial is available to templates under its file name without the extension.
// An empty or missing dir means there are no partials.
func (r *Renderer) LoadPartials(dir string) error {
	if dir == "" {
		r.partials = make(map[string]string)
		return nil
	}
	names, err := r.st.List(dir, PartialExt)
	if store.IsNotExist(err) {
		r.partials = make(map[string]string)
		return nil
	}
	if err != nil {
		return err
	}
	partials := make(map[string]string, len(names))
	for _, n := range names {
		data, err := r.st.Read(filepath.Join(dir, n))
		if err != nil {
			return err
		}
		partials[strings.TrimSuffix(n, PartialExt)] = string(data)
	}
	r.partials = partials
	return nil
}

// Partials returns the sorted names of the loaded partials.
func (r *Renderer) Partials() []string {
	return slices.Sorted(maps.Keys(r.partials))
}

// Render reads the template at path and executes it with data.
func (r *Renderer) Render(path string, data any) ([]byte, error) {
	src, err := r.st.Read(path)
	if err != nil {
		return nil, err
	}
	return r.RenderText(filepath.Base(path), src, data)
}

// RenderText executes the template source src, identified by name, with data.
func (r *Renderer) RenderText(name string, src []byte, data any) ([]byte, error) {
	t := template.New(name).Funcs(Funcs()).Option("missingkey=error")
	for n, text := range r.partials {
		if _, err := t.New(n).Parse(text); err != nil {
			return nil, &Error{Name: n + PartialExt, Err: err}
		}
	}
	if _, err := t.Parse(string(src)); err != nil {
		return nil, &Error{Name: name, Err: err}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, &Error{Name: name, Err: err}
	}
	return buf.Bytes(), nil
}

// LoadVars returns base overlaid with the top-level keys of the YAML file at path.
// A missing file yields a copy of base.
func (r *Renderer) LoadVars(path string, base map[string]any) (map[string]any, error) {
	vars := make(map[string]any, len(base))
	maps.Copy(vars, base)
	data, err := r.st.Read(path)
	if store.IsNotExist(err) {
		return vars, nil
	}
	if err != nil {
		return nil, err
	}
	var side map[string]any
	if err := yaml.Unmarshal(data, &side); err != nil {
		return nil, fmt.Errorf("vars %s: %w", path, err)
	}
	maps.Copy(vars, side)
	return vars, nil
}
