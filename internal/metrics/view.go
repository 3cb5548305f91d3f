package metrics

import (
	"sync"
	"time"

	"screenflow/internal/view"
)

// TransitionRecorder is a view.Emitter that feeds the transition collectors.
type TransitionRecorder struct {
	m *Metrics

	mu      sync.Mutex
	started map[string]time.Time
}

var _ view.Emitter = (*TransitionRecorder)(nil)

// Transitions returns an emitter recording view transitions into m.
func (m *Metrics) Transitions() *TransitionRecorder {
	return &TransitionRecorder{m: m, started: make(map[string]time.Time)}
}

// Emit implements view.Emitter.
func (r *TransitionRecorder) Emit(ev view.Event) {
	if r.m == nil {
		return
	}
	r.mu.Lock()
	var d time.Duration
	switch ev.To {
	case view.Showing, view.Hiding:
		r.started[ev.View] = ev.At
	default:
		if start, ok := r.started[ev.View]; ok && (ev.From == view.Showing || ev.From == view.Hiding) {
			d = ev.At.Sub(start)
		}
		delete(r.started, ev.View)
	}
	r.mu.Unlock()
	r.m.RecordTransition(ev.To.String(), d)
}
