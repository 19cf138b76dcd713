package frontend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Watcher polls a directory tree for token-stream files and re-runs the
// pipeline on every file that is new or has been modified since the last
// scan.
type Watcher struct {
	root     string
	ext      string
	interval time.Duration
	opts     Options
	modTimes map[string]time.Time

	// OnResult is called with every fresh result, in scan order.
	OnResult func(*Result)
	// OnError is called when a changed file could not be read.
	OnError func(path string, err error)
	// OnRemove is called for files that disappeared since the last scan.
	OnRemove func(path string)
}

// NewWatcher watches root for files ending in ext (".jsonl" when empty).
// The leading dot of ext is optional.
func NewWatcher(root, ext string, interval time.Duration, opts Options) *Watcher {
	if ext == "" {
		ext = ".jsonl"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		root:     root,
		ext:      ext,
		interval: interval,
		opts:     opts,
		modTimes: make(map[string]time.Time),
	}
}

// Run scans once immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan walks the tree once. Hidden directories are skipped.
func (w *Watcher) Scan(ctx context.Context) {
	current := make(map[string]bool)
	var changed []string

	filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != w.ext {
			return nil
		}

		current[path] = true
		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = append(changed, path)
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			log.Debugf("%s removed", path)
			if w.OnRemove != nil {
				w.OnRemove(path)
			}
		}
	}

	if len(changed) == 0 {
		return
	}
	log.Infof("%d changed files under %s", len(changed), w.root)
	results, errs := runEach(ctx, changed, w.opts)
	for i, res := range results {
		if errs[i] != nil {
			// Retry on the next scan.
			delete(w.modTimes, changed[i])
			if w.OnError != nil {
				w.OnError(changed[i], errs[i])
			}
			continue
		}
		if w.OnResult != nil {
			w.OnResult(res)
		}
	}
}
