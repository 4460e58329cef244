package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegen/internal/config"
	"scenegen/internal/pipeline"
	"scenegen/internal/scene"
	"scenegen/internal/store"
)

type fixture struct {
	fs     afero.Fs
	logBuf *bytes.Buffer
	b      *pipeline.Builder
}

func newFixture(t *testing.T, opts pipeline.Options, files map[string]string) fixture {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(text), 0644))
	}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return fixture{fs: fsys, logBuf: &buf, b: pipeline.New(store.New(fsys), log, opts)}
}

func (f fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	t.Run("writes one pretty json per template", func(t *testing.T) {
		// given
		f := newFixture(t, pipeline.Options{Input: "scenes", Output: "out", Pretty: true, Indent: "  ", Workers: 2}, map[string]string{
			"scenes/a.scene":  `{"entities":[{"name":"{{.Name}}"}]}`,
			"scenes/b.scene":  `{"entities":{{json (tiles "box" (vec 0 0 0) (vec 0 0 2) (vec 0 0 1))}}}`,
			"scenes/notes.md": `ignored`,
		})
		// when
		sum, err := f.b.Build(ctx)
		// then
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Built)
		assert.Equal(t, 0, sum.Failed)
		assert.Greater(t, sum.Bytes, int64(0))
		assert.Equal(t, "{\n  \"entities\": [\n    {\n      \"name\": \"a\"\n    }\n  ]\n}\n", f.read(t, "out/a.json"))
		sc, err := scene.Decode([]byte(f.read(t, "out/b.json")))
		require.NoError(t, err)
		require.Len(t, sc.Entities, 2)
		assert.Equal(t, scene.Vec(0, 0, 1), sc.Entities[1].Position())
		ok, _ := afero.Exists(f.fs, "out/notes.json")
		assert.False(t, ok)
	})
	t.Run("writes next to templates when no output dir is set", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "scenes"}, map[string]string{
			"scenes/a.scene": `{"entities":[]}`,
		})
		_, err := f.b.Build(ctx)
		require.NoError(t, err)
		ok, _ := afero.Exists(f.fs, "scenes/a.json")
		assert.True(t, ok)
	})
	t.Run("keeps rendered text when not pretty", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "in", Output: "out"}, map[string]string{
			"in/a.scene": `{"entities": [ ]}`,
		})
		_, err := f.b.Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, `{"entities": [ ]}`, f.read(t, "out/a.json"))
	})
	t.Run("uses config and sidecar vars", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "in", Output: "out", Pretty: true, Vars: map[string]any{"model": "box", "n": 1}}, map[string]string{
			"in/a.scene": `{"entities":[{"renderable":"{{.Vars.model}}"}]}`,
			"in/b.scene": `{"entities":[{"renderable":"{{.Vars.model}}"}]}`,
			"in/b.yaml":  "model: plank\n",
		})
		_, err := f.b.Build(ctx)
		require.NoError(t, err)
		assert.Contains(t, f.read(t, "out/a.json"), `"box"`)
		assert.Contains(t, f.read(t, "out/b.json"), `"plank"`)
	})
	t.Run("uses partials", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "in", Output: "out", Partials: "in/partials"}, map[string]string{
			"in/partials/lamp.partial": `{"name":"lamp"}`,
			"in/a.scene":               `{"entities":[{{template "lamp"}}]}`,
		})
		_, err := f.b.Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, `{"entities":[{"name":"lamp"}]}`, f.read(t, "out/a.json"))
		assert.Contains(t, f.logBuf.String(), "partials=[lamp]")
	})
	t.Run("a failing template does not stop the others", func(t *testing.T) {
		// given
		f := newFixture(t, pipeline.Options{Input: "in", Output: "out", Pretty: true, Workers: 3}, map[string]string{
			"in/bad_json.scene":   "{\n  \"entities\": [\n    {\"name\": \"x\",}\n  ]\n}",
			"in/bad_render.scene": `{{ .Vars.missing }}`,
			"in/good.scene":       `{"entities":[]}`,
		})
		// when
		sum, err := f.b.Build(ctx)
		// then
		assert.ErrorIs(t, err, pipeline.ErrBuildFailed)
		assert.Equal(t, 1, sum.Built)
		assert.Equal(t, 2, sum.Failed)
		assert.Len(t, sum.Failures, 2)
		ok, _ := afero.Exists(f.fs, "out/good.json")
		assert.True(t, ok)
		ok, _ = afero.Exists(f.fs, "out/bad_json.json")
		assert.False(t, ok)
		assert.Contains(t, f.logBuf.String(), "template=bad_json.scene line=3")
		assert.Contains(t, f.logBuf.String(), `msg="Failed to render template" template=bad_render.scene`)
	})
	t.Run("missing input dir is an error", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "nope"}, nil)
		_, err := f.b.Build(ctx)
		assert.True(t, store.IsNotExist(err), "got %v", err)
	})
	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture(t, pipeline.Options{Input: "in"}, map[string]string{
			"in/a.scene": `{}`,
		})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.b.Build(cctx)
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	})
}

func TestBuildFile(t *testing.T) {
	f := newFixture(t, pipeline.Options{Input: "in", Output: "out"}, map[string]string{
		"in/a.scene": `[1]`,
		"in/b.scene": `[2]`,
	})
	n, err := f.b.BuildFile(context.Background(), "a.scene")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "[1]", f.read(t, "out/a.json"))
	ok, _ := afero.Exists(f.fs, "out/b.json")
	assert.False(t, ok)
	assert.Equal(t, "out/a.json", f.b.OutputPath("a.scene"))
}

func TestSummaryString(t *testing.T) {
	s := pipeline.Summary{Built: 2, Failed: 1, Bytes: 2048}
	assert.Equal(t, "2 built, 1 failed, 2.0 kB written", s.String())
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default()
	c.Vars = map[string]any{"a": 1}
	got := pipeline.OptionsFromConfig(c)
	assert.Equal(t, c.Input, got.Output)
	assert.Equal(t, c.Workers, got.Workers)
	assert.Equal(t, c.Vars, got.Vars)
}
