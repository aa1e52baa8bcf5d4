// Package watch imports order exports dropped into a directory.
//
// Files are imported once they stop changing for the settle delay, one at a
// time, through the same import service the CLI uses. Re-imports are safe
// because the import ledger skips rows it has already seen.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grocer-cli/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is imported.
const DefaultSettle = 2 * time.Second

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("watch path is not a directory")

// Result is the outcome of importing one file.
type Result struct {
	Path   string
	Report *domain.ImportReport
	Err    error
}

// Watcher imports .csv and .zip files as they appear in a directory.
type Watcher struct {
	importer driving.ImportService
	dir      string
	opts     domain.ImportOptions
	settle   time.Duration
}

// New creates a watcher for dir.
func New(importer driving.ImportService, dir string, opts domain.ImportOptions) *Watcher {
	return &Watcher{
		importer: importer,
		dir:      dir,
		opts:     opts,
		settle:   DefaultSettle,
	}
}

// WithSettle overrides the settle delay.
func (w *Watcher) WithSettle(d time.Duration) *Watcher {
	w.settle = d
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Validate checks that the watched path is an existing directory.
func (w *Watcher) Validate() error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, w.dir)
	}
	return nil
}

// Watch starts watching and returns a channel of import results.
// When existing is true, files already in the directory are imported first.
// The channel is closed when ctx is cancelled or the watcher fails.
func (w *Watcher) Watch(ctx context.Context, existing bool) (<-chan Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	var initial []string
	if existing {
		initial, err = w.existingFiles()
		if err != nil {
			fsw.Close()
			return nil, err
		}
	}

	results := make(chan Result)
	go w.loop(ctx, fsw, results, initial)
	return results, nil
}

type dueFile struct {
	path string
	gen  int
}

// loop owns all state; imports run on it so they never overlap.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, results chan<- Result, initial []string) {
	defer close(results)
	defer fsw.Close()

	timers := make(map[string]*time.Timer)
	gens := make(map[string]int)
	due := make(chan dueFile)
	done := make(chan struct{})
	defer close(done)

	schedule := func(path string) {
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		gens[path]++
		d := dueFile{path: path, gen: gens[path]}
		timers[path] = time.AfterFunc(w.settle, func() {
			select {
			case due <- d:
			case <-done:
			}
		})
	}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for _, p := range initial {
		schedule(p)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if path, ok := handleFsEvent(ev); ok {
				logger.Debug("watch: %s changed, waiting %s", filepath.Base(path), w.settle)
				schedule(path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)

		case d := <-due:
			if gens[d.path] != d.gen {
				// Superseded by a later change.
				continue
			}
			delete(timers, d.path)
			delete(gens, d.path)

			res, ok := w.importFile(ctx, d.path)
			if !ok {
				continue
			}
			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// importFile imports one settled file. Files that vanished are skipped.
func (w *Watcher) importFile(ctx context.Context, path string) (Result, bool) {
	if _, err := os.Stat(path); err != nil {
		logger.Debug("watch: %s gone before import", filepath.Base(path))
		return Result{}, false
	}
	report, err := w.importer.Import(ctx, path, w.opts)
	return Result{Path: path, Report: report, Err: err}, true
}

func (w *Watcher) existingFiles() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if isImportable(path) {
			out = append(out, path)
		}
	}
	return out, nil
}

// handleFsEvent returns the path to import for create and write events on
// export files.
func handleFsEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if !isImportable(ev.Name) {
		return "", false
	}
	if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
		return "", false
	}
	return ev.Name, true
}

// isImportable reports whether path names a visible .csv or .zip file.
func isImportable(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".zip":
		return true
	default:
		return false
	}
}
