// Package watch triggers a metadata rescan when tracked files change on
// disk, so classification updates without waiting for the next poll.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Events are coalesced so an editor's write-rename dance fires one rescan.
const debounce = 500 * time.Millisecond

// Watcher watches the directories containing tracked files and invokes
// onChange after a quiet period following any event.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func()

	mu      sync.Mutex
	watched map[string]struct{}
	pending *time.Timer
}

// New builds a Watcher. Run must be called for events to flow.
func New(onChange func()) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:       fs,
		onChange: onChange,
		watched:  map[string]struct{}{},
	}, nil
}

// SetPaths points the watcher at the directories containing the given
// repo-relative paths, replacing the previous watch set. Directories that do
// not exist are skipped.
func (w *Watcher) SetPaths(repoRoot string, paths []string) {
	dirs := make(map[string]struct{}, len(paths))
	for _, rel := range paths {
		dirs[filepath.Dir(filepath.Join(repoRoot, filepath.FromSlash(rel)))] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := range w.watched {
		if _, keep := dirs[dir]; !keep {
			_ = w.fs.Remove(dir)
			delete(w.watched, dir)
		}
	}
	for dir := range dirs {
		if _, ok := w.watched[dir]; ok {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			continue
		}
		w.watched[dir] = struct{}{}
	}
}

// Run pumps events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fs.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounce, w.onChange)
}
