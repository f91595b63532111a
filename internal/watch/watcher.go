package watch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/nilszeilon/promptimg/internal/fileutil"
	"github.com/nilszeilon/promptimg/internal/imageref"
	"github.com/nilszeilon/promptimg/internal/timing"
)

// Result is the set of images attached to a prompt file at one point in time.
type Result struct {
	Path   string   `json:"path"`
	Hash   string   `json:"hash"`
	Images []string `json:"images"`
}

type Handler func(Result)

// Watcher re-extracts the images of a prompt file whenever it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler

	mu       sync.Mutex
	lastHash string
}

func NewWatcher(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prompt path: %w", err)
	}
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}
	return &Watcher{path: filepath.Clean(abs), debounce: debounce, handler: handler}, nil
}

// Scan extracts the images of the prompt file. changed is false when the
// content is identical to the previous scan.
func (w *Watcher) Scan() (res Result, changed bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := os.ReadFile(w.path)
	if err != nil {
		return Result{}, false, fmt.Errorf("read prompt: %w", err)
	}
	hash, err := fileutil.HashReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, false, fmt.Errorf("hash prompt: %w", err)
	}
	if hash == w.lastHash {
		return Result{}, false, nil
	}
	w.lastHash = hash
	return Result{Path: w.path, Hash: hash, Images: imageref.Extract(string(data))}, true, nil
}

// Watch scans once, then keeps scanning on every change to the file until ctx
// is done. The file's directory is watched so editors that save by rename
// are followed.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	w.rescan()

	debouncer := timing.NewDebouncer(w.debounce, func(struct{}) { w.rescan() })
	defer debouncer.Stop()

	log.Printf("watching %s for changes...", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			debouncer.Call(struct{}{})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) rescan() {
	res, changed, err := w.Scan()
	if err != nil {
		// File is mid-save or was removed; the next event retries.
		log.WithField("path", w.path).Debugf("scan skipped: %v", err)
		return
	}
	if !changed {
		return
	}
	w.handler(res)
}
