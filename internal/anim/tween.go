package anim

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"

	"screenflow/internal/view"
)

// Spring parameterizes a frame-stepped spring tween.
type Spring struct {
	FPS       int
	Frequency float64 // angular frequency; higher settles faster
	Damping   float64 // 1 is critically damped, < 1 overshoots
	Timeout   time.Duration
}

// DefaultSpring settles in roughly a third of a second.
func DefaultSpring() Spring {
	return Spring{FPS: 60, Frequency: 8, Damping: 1, Timeout: 600 * time.Millisecond}
}

// tween steps a value from `from` towards `to`, calling set every frame.
// It snaps to `to` once the spring settles or the timeout elapses.
func tween(ctx context.Context, s Spring, from, to float64, set func(float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from == to {
		set(to)
		return nil
	}
	fps := s.FPS
	if fps <= 0 {
		fps = 60
	}
	spring := harmonica.NewSpring(harmonica.FPS(fps), s.Frequency, s.Damping)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	deadline := time.NewTimer(s.Timeout)
	defer deadline.Stop()

	epsilon := 1e-3 * math.Max(1, math.Abs(to-from))
	pos, vel := from, 0.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			set(to)
			return nil
		case <-ticker.C:
			pos, vel = spring.Update(pos, vel, to)
			if math.Abs(pos-to) < epsilon && math.Abs(vel) < epsilon {
				set(to)
				return nil
			}
			set(pos)
		}
	}
}

func lerp(a, b view.Point, t float64) view.Point {
	return view.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// inflight tracks the running transition per target so a new transition
// can cancel the previous one.
type inflight struct {
	mu   sync.Mutex
	runs map[view.Target]*run
}

type run struct {
	cancel context.CancelFunc
}

// start cancels the target's running transition and registers a new one.
// The returned func must be called when the transition ends. A ctx that is
// already done leaves the running transition alone.
func (f *inflight) start(ctx context.Context, t view.Target) (context.Context, func()) {
	cctx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel}

	f.mu.Lock()
	if ctx.Err() != nil {
		f.mu.Unlock()
		return cctx, cancel
	}
	if f.runs == nil {
		f.runs = make(map[view.Target]*run)
	}
	if prev, ok := f.runs[t]; ok {
		prev.cancel()
	}
	f.runs[t] = r
	f.mu.Unlock()

	return cctx, func() {
		f.mu.Lock()
		if f.runs[t] == r {
			delete(f.runs, t)
		}
		f.mu.Unlock()
		cancel()
	}
}

// stop cancels the target's running transition, if any.
func (f *inflight) stop(t view.Target) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.runs[t]; ok {
		prev.cancel()
		delete(f.runs, t)
	}
}

// active reports whether a transition is running on t.
func (f *inflight) active(t view.Target) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.runs[t]
	return ok
}
