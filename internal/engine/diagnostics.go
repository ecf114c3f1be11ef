package engine

import (
	"context"
	"sync"
	"time"

	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/types"
)

// PublishFunc receives recomputed diagnostics for a document.
type PublishFunc func(path string, diags []types.Diagnostic)

// diagScheduler recomputes diagnostics for edited documents after a
// quiet period, one timer per path so edits to one file do not delay
// diagnostics for another.
type diagScheduler struct {
	engine  *Engine
	mu      sync.Mutex
	timers  map[string]*time.Timer
	publish PublishFunc
	closed  bool
}

func newDiagScheduler(e *Engine) *diagScheduler {
	return &diagScheduler{
		engine: e,
		timers: make(map[string]*time.Timer),
	}
}

// SetDiagnosticsPublisher installs the sink for debounced diagnostics.
// Without a publisher the scheduler stays idle and diagnostics are
// computed only on demand.
func (e *Engine) SetDiagnosticsPublisher(fn PublishFunc) {
	e.diag.mu.Lock()
	e.diag.publish = fn
	e.diag.mu.Unlock()
}

func (s *diagScheduler) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.publish == nil {
		return
	}

	if t, ok := s.timers[path]; ok {
		t.Stop()
	}
	delay := time.Duration(s.engine.Config().Diagnostics.DebounceMs) * time.Millisecond
	s.timers[path] = time.AfterFunc(delay, func() { s.fire(path) })
}

func (s *diagScheduler) cancel(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[path]; ok {
		t.Stop()
		delete(s.timers, path)
	}
}

func (s *diagScheduler) fire(path string) {
	s.mu.Lock()
	delete(s.timers, path)
	fn := s.publish
	closed := s.closed
	s.mu.Unlock()

	if closed || fn == nil {
		return
	}

	diags, err := s.engine.Diagnostics(context.Background(), path)
	if err != nil {
		debug.Log("diag", "diagnostics for %s failed: %v", path, err)
		return
	}
	fn(path, diags)
}

func (s *diagScheduler) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for path, t := range s.timers {
		t.Stop()
		delete(s.timers, path)
	}
}
