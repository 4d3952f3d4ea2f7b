package store

import (
	"context"
	"sync"
	"time"
)

// DefaultThrottle is the minimum time between effective reloads.
const DefaultThrottle = 10 * time.Second

// Outcome is the result of a reload request.
type Outcome int

const (
	// Throttled means the request came too soon and the store was not touched.
	Throttled Outcome = iota
	// Reloaded means the store was rebuilt.
	Reloaded
	// Failed means the rebuild returned an error and the old posts remain.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Reloaded:
		return "reloaded"
	case Throttled:
		return "throttled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Reloader rate limits rebuilds of a Store.
type Reloader struct {
	mu     sync.Mutex
	last   time.Time
	window time.Duration
	now    func() time.Time
	store  *Store

	// OnReload, if set, is called after each successful rebuild while the
	// reloader lock is held.
	OnReload func(Snapshot)
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithWindow sets the throttle window. Zero disables throttling.
func WithWindow(d time.Duration) ReloaderOption {
	return func(r *Reloader) { r.window = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ReloaderOption {
	return func(r *Reloader) { r.now = now }
}

// NewReloader returns a Reloader whose first request is never throttled.
func NewReloader(s *Store, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		window: DefaultThrottle,
		now:    time.Now,
		store:  s,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.last = r.now().Add(-r.window)
	return r
}

// Reload rebuilds the store unless the previous effective reload happened
// less than the window ago. A failed rebuild keeps the old collection and
// does not count as a reload.
func (r *Reloader) Reload(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.last) < r.window {
		return Throttled, nil
	}
	if err := r.store.Load(ctx); err != nil {
		return Failed, err
	}
	r.last = now
	if r.OnReload != nil {
		r.OnReload(r.store.Snapshot())
	}
	return Reloaded, nil
}

// Next reports when the next reload may run.
func (r *Reloader) Next() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Add(r.window)
}
