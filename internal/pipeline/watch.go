package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ErikKalkoken/go-set"
	"github.com/fsnotify/fsnotify"

	"scenegen/internal/render"
)

// change is what a file event means for the build.
type change struct {
	all  bool   // a partial changed: rebuild everything
	name string // template to rebuild
}

// classify maps a changed path to a rebuild. ok is false for files the build does not read,
// including the JSON it writes itself.
func (b *Builder) classify(path string) (c change, ok bool) {
	dir := filepath.Clean(filepath.Dir(path))
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if b.opts.Partials != "" && dir == filepath.Clean(b.opts.Partials) && ext == render.PartialExt {
		return change{all: true}, true
	}
	if dir != filepath.Clean(b.opts.Input) {
		return change{}, false
	}
	switch ext {
	case TemplateExt:
		return change{name: base}, true
	case VarsExt:
		name := strings.TrimSuffix(base, VarsExt) + TemplateExt
		if ok, _ := b.st.Exists(filepath.Join(b.opts.Input, name)); ok {
			return change{name: name}, true
		}
	}
	return change{}, false
}

// Watch rebuilds templates whenever they, their vars files, or the partials change, until ctx
// is cancelled. Events arriving within the debounce interval are coalesced into one rebuild.
func (b *Builder) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(b.opts.Input); err != nil {
		return fmt.Errorf("watch %s: %w", b.opts.Input, err)
	}
	if b.opts.Partials != "" {
		if ok, _ := b.st.Exists(b.opts.Partials); ok {
			if err := w.Add(b.opts.Partials); err != nil {
				return fmt.Errorf("watch %s: %w", b.opts.Partials, err)
			}
		}
	}
	b.log.Info("Watching for changes", "input", b.opts.Input, "partials", b.opts.Partials)

	debounce := b.opts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	var pending set.Set[string]
	var rebuildAll bool
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			c, ok := b.classify(ev.Name)
			if !ok {
				continue
			}
			b.log.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			if c.all {
				rebuildAll = true
			} else {
				pending.Add(c.name)
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("Watcher error", "error", err)
		case <-timer.C:
			b.flush(ctx, rebuildAll, pending)
			rebuildAll = false
			pending = set.Set[string]{}
		}
	}
}

func (b *Builder) flush(ctx context.Context, all bool, pending set.Set[string]) {
	if all {
		if _, err := b.Build(ctx); err != nil {
			b.log.Warn("Rebuild incomplete", "error", err)
		}
		return
	}
	for _, name := range slices.Sorted(pending.All()) {
		// failures are already logged by BuildFile
		_, _ = b.BuildFile(ctx, name)
	}
}
