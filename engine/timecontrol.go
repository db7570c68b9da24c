// timecontrol.go is the external cancellation contract the searcher
// polls: an ExitCondition that the host decides when to trip (wall clock,
// an explicit stop command, or both). Grounded on the shape of the
// teacher's TimeControl (time_control.go) -- a deadline computed once at
// search start and an atomic stop flag a front-end can set concurrently
// -- but pared down to what this engine's single on/off pondering flag
// needs, rather than the teacher's full ponder/branch-factor budgeting.
package engine

import (
	"sync/atomic"
	"time"
)

// ExitCondition is polled by the searcher roughly every 4096 nodes (see
// Searcher.shouldStop) and, advisorially, once per iterative-deepening
// depth. A true result means the current search result, if any, should be
// returned as-is; it is never mandatory to stop mid-node.
type ExitCondition interface {
	IsTimeToExit() bool
}

// NeverExit never signals a stop; useful for tests and fixed-node probes.
type NeverExit struct{}

func (NeverExit) IsTimeToExit() bool { return false }

// TimeBudget signals exit once a wall-clock deadline passes.
type TimeBudget struct {
	deadline time.Time
}

// NewTimeBudget returns a TimeBudget expiring after d from now.
func NewTimeBudget(d time.Duration) *TimeBudget {
	return &TimeBudget{deadline: time.Now().Add(d)}
}

func (tb *TimeBudget) IsTimeToExit() bool { return time.Now().After(tb.deadline) }

// DepthLimit never signals exit, and Searcher.Search does not read Max:
// a search is depth-limited through the maxDepth argument of
// Searcher.Search instead.
type DepthLimit struct {
	Max int
}

func (DepthLimit) IsTimeToExit() bool { return false } // depth is checked by the ID loop, not per node.

// Stoppable wraps another ExitCondition with an explicit stop switch a
// host (a UCI "stop" command, a ponder-hit that now starts the clock) can
// flip concurrently with the search goroutine.
type Stoppable struct {
	inner   ExitCondition
	stopped atomic.Bool
}

// NewStoppable wraps inner (nil is treated as NeverExit).
func NewStoppable(inner ExitCondition) *Stoppable {
	if inner == nil {
		inner = NeverExit{}
	}
	return &Stoppable{inner: inner}
}

// Stop flips the switch; safe to call from another goroutine.
func (s *Stoppable) Stop() { s.stopped.Store(true) }

func (s *Stoppable) IsTimeToExit() bool {
	return s.stopped.Load() || s.inner.IsTimeToExit()
}
