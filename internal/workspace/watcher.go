package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/wrensense/internal/config"
	"github.com/standardbeagle/wrensense/internal/debug"
)

// FileEventType classifies a debounced file system event.
type FileEventType int

const (
	FileEventCreate FileEventType = iota
	FileEventWrite
	FileEventRemove
)

// Watcher monitors the project tree and reports debounced file events
// so the caches can be invalidated incrementally.
type Watcher struct {
	watcher   *fsnotify.Watcher
	cfg       *config.Config
	scanner   *Scanner
	debouncer *eventDebouncer
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	onFileChanged func(path string)
	onFileCreated func(path string)
	onFileRemoved func(path string)
}

// NewWatcher creates a watcher bound to the given configuration and
// scanner. Call SetCallbacks before Start.
func NewWatcher(cfg *config.Config, scanner *Scanner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:   fsw,
		cfg:       cfg,
		scanner:   scanner,
		debouncer: newEventDebouncer(time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond),
		ctx:       ctx,
		cancel:    cancel,
	}
	w.debouncer.sink = w
	return w, nil
}

// SetCallbacks installs the event handlers invoked after debouncing.
func (w *Watcher) SetCallbacks(onChanged, onCreated, onRemoved func(path string)) {
	w.onFileChanged = onChanged
	w.onFileCreated = onCreated
	w.onFileRemoved = onRemoved
}

// Start adds watches for every directory under the project root and
// begins processing events. It is a no-op when watch mode is disabled.
func (w *Watcher) Start() error {
	if !w.cfg.Index.WatchMode {
		debug.LogWatch("watch mode disabled in configuration")
		return nil
	}

	root := w.cfg.Project.Root
	if err := w.addWatches(root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
	}

	w.wg.Add(1)
	go w.processEvents()

	w.wg.Add(1)
	go w.debouncer.run(w.ctx, &w.wg)

	debug.LogWatch("watching %s", root)
	return nil
}

// Stop cancels event processing and closes the underlying watcher.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// addWatches registers every non-excluded directory under root.
// fsnotify watches are not recursive.
func (w *Watcher) addWatches(root string) error {
	visitedDirs := make(map[string]bool)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return filepath.SkipDir
		}
		if visitedDirs[realPath] {
			return filepath.SkipDir
		}
		visitedDirs[realPath] = true

		if path != root && w.scanner.excludedDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			debug.LogWatch("failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.LogWatch("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	info, err := os.Stat(path)
	if err != nil {
		// Removed or renamed away. Stat can no longer tell files from
		// directories, so match on the path alone.
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.scanner.ShouldProcess(path, nil) {
			w.debouncer.addEvent(path, FileEventRemove)
		}
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.scanner.excludedDir(path) {
			if err := w.watcher.Add(path); err != nil {
				debug.LogWatch("failed to add watch for new directory %s: %v", path, err)
			}
		}
		return
	}

	if !w.scanner.ShouldProcess(path, info) {
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		w.debouncer.addEvent(path, FileEventCreate)
	case event.Op&fsnotify.Write != 0:
		w.debouncer.addEvent(path, FileEventWrite)
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.debouncer.addEvent(path, FileEventRemove)
	}
}

// eventDebouncer coalesces bursts of file events, keeping only the
// latest event per path.
type eventDebouncer struct {
	events   map[string]FileEventType
	mutex    sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	sink     *Watcher
}

func newEventDebouncer(debounce time.Duration) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]FileEventType),
		debounce: debounce,
	}
}

func (d *eventDebouncer) addEvent(path string, eventType FileEventType) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.events[path] = eventType

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

func (d *eventDebouncer) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	<-ctx.Done()

	// Events pending at shutdown are dropped. Flushing here could call
	// back into an engine that is mid-teardown.
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mutex.Unlock()
}

func (d *eventDebouncer) flush() {
	d.mutex.Lock()
	events := d.events
	d.events = make(map[string]FileEventType)
	d.mutex.Unlock()

	if len(events) == 0 {
		return
	}
	debug.LogWatch("processing %d debounced events", len(events))

	// Removals first so stale cache entries never shadow recreated files.
	for path, et := range events {
		if et == FileEventRemove && d.sink.onFileRemoved != nil {
			d.sink.onFileRemoved(path)
		}
	}
	for path, et := range events {
		switch et {
		case FileEventWrite:
			if d.sink.onFileChanged != nil {
				d.sink.onFileChanged(path)
			}
		case FileEventCreate:
			if d.sink.onFileCreated != nil {
				d.sink.onFileCreated(path)
			}
		}
	}
}
