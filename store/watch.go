package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external changes to a data file, so a long-running board
// can refresh its collection when another process edits the file. The
// atomic temp-file rename used on save shows up as Create/Rename events on
// the watched directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}

	// C receives one value per (coalesced) change to the data file.
	C chan struct{}
}

// WatchFile watches the data file at path. The parent directory is watched
// rather than the file itself, because atomic saves replace the inode.
func WatchFile(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		watcher: fw,
		done:    make(chan struct{}),
		C:       make(chan struct{}, 1),
	}
	go w.run(filepath.Clean(path))
	return w, nil
}

func (w *Watcher) run(target string) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Ignore our own temp files.
			if strings.HasSuffix(ev.Name, ".tmp") {
				continue
			}
			select {
			case w.C <- struct{}{}:
			default: // a refresh is already pending
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher. C is not closed; receivers should select on
// their own shutdown signal as well.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
