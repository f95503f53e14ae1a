// Package watchdog tracks receive liveness across all protocol sources.
// A monotonically increasing frame counter is compared against the last
// observed value each tick; 30 seconds without movement flips the status
// to Stale until the next successful decode.
package watchdog

import (
	"sync"
	"time"
)

// DefaultTimeout is how long the counter may hold still before the
// receiver is declared stale.
const DefaultTimeout = 30 * time.Second

// Status is the derived liveness state. It is recomputed on demand and
// never stored persistently.
type Status int

const (
	Active Status = iota
	Stale
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Watchdog watches the frame counter. Mark is called by the dispatcher
// once per successfully decoded frame; Check is called once per tick.
type Watchdog struct {
	mu          sync.Mutex
	timeout     time.Duration
	now         func() time.Time
	counter     uint64
	lastSeen    uint64 // counter value at the previous Check
	lastChange  time.Time
	wasStale    bool
	onStaleHook func()
}

// Option configures a Watchdog.
type Option func(*Watchdog)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Watchdog) { w.now = now }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Watchdog) { w.timeout = d }
}

// WithOnStale registers a hook invoked once on each Active to Stale
// transition. The reference policy is a no-op; a collaborator may use it
// to force all relays off.
func WithOnStale(hook func()) Option {
	return func(w *Watchdog) { w.onStaleHook = hook }
}

// New creates a watchdog seeded Active at the current time.
func New(opts ...Option) *Watchdog {
	w := &Watchdog{
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.lastChange = w.now()
	return w
}

// Mark records one successfully decoded frame.
func (w *Watchdog) Mark() {
	w.mu.Lock()
	w.counter++
	w.mu.Unlock()
}

// Counter returns the total number of decoded frames.
func (w *Watchdog) Counter() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counter
}

// Check recomputes the liveness status. The last-change time moves if and
// only if the counter differs from the value observed by the previous
// Check. Invokes the on-stale hook on the Active to Stale edge.
func (w *Watchdog) Check() Status {
	w.mu.Lock()

	now := w.now()
	if w.counter != w.lastSeen {
		w.lastChange = now
		w.lastSeen = w.counter
	}

	status := Active
	if now.Sub(w.lastChange) > w.timeout {
		status = Stale
	}

	fireHook := status == Stale && !w.wasStale && w.onStaleHook != nil
	w.wasStale = status == Stale
	hook := w.onStaleHook
	w.mu.Unlock()

	if fireHook {
		hook()
	}
	return status
}
