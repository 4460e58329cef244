// Package pipeline builds scene templates into JSON scene files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"scenegen/internal/codec"
	"scenegen/internal/config"
	"scenegen/internal/render"
	"scenegen/internal/store"
)

const (
	TemplateExt = ".scene"
	VarsExt     = ".yaml"
	OutputExt   = ".json"
)

// ErrBuildFailed is returned when at least one template could not be built.
var ErrBuildFailed = errors.New("build failed")

// Options controls a build.
type Options struct {
	Input    string
	Output   string // empty = Input
	Partials string
	Pretty   bool
	Indent   string
	Workers  int
	Debounce time.Duration
	Vars     map[string]any
}

// OptionsFromConfig returns the build options in c.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Input:    c.Input,
		Output:   c.OutputDir(),
		Partials: c.Partials,
		Pretty:   c.Pretty,
		Indent:   c.Indent,
		Workers:  c.Workers,
		Debounce: c.Debounce,
		Vars:     c.Vars,
	}
}

// Failure is a template that could not be built.
type Failure struct {
	Name string
	Err  error
}

// Summary reports the outcome of a build.
type Summary struct {
	Built    int
	Failed   int
	Bytes    int64
	Failures []Failure
}

func (s Summary) String() string {
	return fmt.Sprintf("%d built, %d failed, %s written", s.Built, s.Failed, humanize.Bytes(uint64(s.Bytes)))
}

// Builder renders templates and writes the resulting scenes.
type Builder struct {
	st   *store.Store
	r    *render.Renderer
	log  *slog.Logger
	opts Options
}

// New returns a builder reading and writing through st.
func New(st *store.Store, log *slog.Logger, opts Options) *Builder {
	if opts.Output == "" {
		opts.Output = opts.Input
	}
	if opts.Indent == "" {
		opts.Indent = codec.DefaultIndent
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{st: st, r: render.New(st), log: log, opts: opts}
}

// Templates returns the names of the templates in the input dir.
func (b *Builder) Templates() ([]string, error) {
	return b.st.List(b.opts.Input, TemplateExt)
}

// OutputPath returns where the scene built from the named template is written.
func (b *Builder) OutputPath(name string) string {
	return filepath.Join(b.opts.Output, strings.TrimSuffix(name, TemplateExt)+OutputExt)
}

// Build builds every template in the input dir. Templates are independent: a failing one is
// logged and counted while the others continue. It returns ErrBuildFailed if any failed.
func (b *Builder) Build(ctx context.Context) (Summary, error) {
	var sum Summary
	if err := b.r.LoadPartials(b.opts.Partials); err != nil {
		return sum, err
	}
	names, err := b.Templates()
	if err != nil {
		return sum, err
	}
	b.log.Debug("Building templates", "input", b.opts.Input, "count", len(names), "partials", b.r.Partials())

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(b.opts.Workers)
	for _, name := range names {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n, err := b.buildFile(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				sum.Failures = append(sum.Failures, Failure{Name: name, Err: err})
				return nil
			}
			sum.Built++
			sum.Bytes += int64(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	b.log.Info("Build finished", "input", b.opts.Input, "built", sum.Built, "failed", sum.Failed, "size", humanize.Bytes(uint64(sum.Bytes)))
	if sum.Failed > 0 {
		return sum, fmt.Errorf("%w: %d of %d templates", ErrBuildFailed, sum.Failed, len(names))
	}
	return sum, nil
}

// BuildFile builds the single named template (e.g. "room.scene") and returns the bytes written.
// Partials are reloaded first so edits to them are picked up.
func (b *Builder) BuildFile(ctx context.Context, name string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := b.r.LoadPartials(b.opts.Partials); err != nil {
		return 0, err
	}
	return b.buildFile(name)
}

func (b *Builder) buildFile(name string) (int, error) {
	start := time.Now()
	out, err := b.compile(name)
	if err != nil {
		b.logFailure(name, err)
		return 0, err
	}
	dst := b.OutputPath(name)
	if err := b.st.Write(dst, out); err != nil {
		b.logFailure(name, err)
		return 0, err
	}
	b.log.Info("Built scene", "template", name, "output", dst, "size", humanize.Bytes(uint64(len(out))), "duration", time.Since(start))
	return len(out), nil
}

// compile renders the named template and checks that the result is valid JSON.
func (b *Builder) compile(name string) ([]byte, error) {
	stem := strings.TrimSuffix(name, TemplateExt)
	vars, err := b.r.LoadVars(filepath.Join(b.opts.Input, stem+VarsExt), b.opts.Vars)
	if err != nil {
		return nil, err
	}
	text, err := b.r.Render(filepath.Join(b.opts.Input, name), render.Context{Name: stem, Vars: vars})
	if err != nil {
		return nil, err
	}
	if b.opts.Pretty {
		return codec.Format(text, b.opts.Indent)
	}
	if err := codec.Validate(text); err != nil {
		return nil, err
	}
	return text, nil
}

func (b *Builder) logFailure(name string, err error) {
	var se *codec.SyntaxError
	if errors.As(err, &se) {
		b.log.Error("Rendered scene is not valid JSON",
			"template", name,
			"line", se.Line,
			"column", se.Column,
			"error", se.Msg,
			"source", se.Snippet(),
		)
		return
	}
	var re *render.Error
	if errors.As(err, &re) {
		b.log.Error("Failed to render template", "template", name, "error", re.Err)
		return
	}
	b.log.Error("Failed to build scene", "template", name, "error", err)
}
