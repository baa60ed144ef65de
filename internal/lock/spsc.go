package lock

import (
	"runtime"
	"sync/atomic"
	"time"
)

const (
	// spinLimit is the number of failed acquire attempts before a goroutine
	// tries to park.
	spinLimit = 128
	// yieldEvery controls how often a spinning goroutine yields its processor.
	yieldEvery = 16
	// shortWait is the timeout below which AwaitTimeout yields once instead of
	// arming a timer and reading the clock.
	shortWait = time.Microsecond
)

// SPSC is a reentrant lock for exactly one Producer goroutine and one Consumer
// goroutine, plus occasional Control callers.
//
// It is only correct when at most one goroutine acts as Producer and at most
// one acts as Consumer at any time: reentrancy and signal delivery are keyed
// by Role. Use Mutex when several goroutines may produce concurrently.
//
// The zero value is not usable; create one with NewSPSC.
type SPSC struct {
	state atomic.Int32
	// owner holds role+1 while a reentrant role holds the lock, 0 otherwise.
	owner atomic.Int32
	depth int

	// lockWaiter is the single goroutine parked waiting for the lock itself.
	lockWaiter atomic.Pointer[parker]

	waiters   [numRoles]atomic.Pointer[parker]
	signalled [numRoles]atomic.Bool
	parkers   [numRoles]*parker
}

// NewSPSC returns an unlocked SPSC lock.
func NewSPSC() *SPSC {
	s := &SPSC{}
	for i := range s.parkers {
		s.parkers[i] = newParker()
	}
	return s
}

// Lock implements Locker.
func (s *SPSC) Lock(role Role) {
	if role.reentrant() && s.owner.Load() == ownerTag(role) {
		s.depth++
		return
	}
	if !s.state.CompareAndSwap(0, 1) {
		s.lockSlow(role)
	}
	s.acquired(role, 1)
}

func (s *SPSC) lockSlow(role Role) {
	p := s.parkers[role]
	for spins := 1; ; spins++ {
		if s.state.Load() == 0 && s.state.CompareAndSwap(0, 1) {
			return
		}
		if spins < spinLimit {
			if spins%yieldEvery == 0 {
				runtime.Gosched()
			}
			continue
		}
		// Only one goroutine may park for the lock; anyone else keeps yielding.
		if role == Control || !s.lockWaiter.CompareAndSwap(nil, p) {
			runtime.Gosched()
			continue
		}
		// The holder reads lockWaiter after clearing state, so either it sees us
		// or we see the lock free here.
		if s.state.Load() != 0 {
			p.park()
		}
		s.lockWaiter.CompareAndSwap(p, nil)
		spins = 0
	}
}

func (s *SPSC) acquired(role Role, depth int) {
	if role.reentrant() {
		s.owner.Store(ownerTag(role))
	}
	s.depth = depth
}

// Unlock implements Locker.
func (s *SPSC) Unlock(Role) {
	if s.depth--; s.depth > 0 {
		return
	}
	s.release()
}

// release fully releases the lock regardless of depth and returns the depth
// it had.
func (s *SPSC) release() int {
	depth := s.depth
	s.depth = 0
	s.owner.Store(0)
	s.state.Store(0)
	for i := range s.signalled {
		if s.signalled[i].Load() && s.signalled[i].CompareAndSwap(true, false) {
			if w := s.waiters[i].Load(); w != nil {
				w.unpark()
			}
		}
	}
	if w := s.lockWaiter.Load(); w != nil {
		w.unpark()
	}
	return depth
}

func (s *SPSC) reacquire(role Role, depth int) {
	if !s.state.CompareAndSwap(0, 1) {
		s.lockSlow(role)
	}
	s.acquired(role, depth)
	s.waiters[role].Store(nil)
}

// Signal implements Locker.
func (s *SPSC) Signal(role Role) {
	s.signalled[role].Store(true)
}

// Await implements Locker.
func (s *SPSC) Await(role Role) {
	p := s.register(role)
	depth := s.release()
	p.park()
	s.reacquire(role, depth)
}

// AwaitTimeout implements Locker.
func (s *SPSC) AwaitTimeout(role Role, d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	if d < shortWait {
		depth := s.release()
		runtime.Gosched()
		s.reacquire(role, depth)
		return 0
	}
	p := s.register(role)
	depth := s.release()
	start := time.Now()
	p.parkTimeout(d)
	remaining := d - time.Since(start)
	s.reacquire(role, depth)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// register makes the caller the signal target for role. A signal left over
// from before the caller checked its condition is stale and dropped.
func (s *SPSC) register(role Role) *parker {
	p := s.parkers[role]
	s.signalled[role].Store(false)
	s.waiters[role].Store(p)
	return p
}

func ownerTag(role Role) int32 {
	return int32(role) + 1
}
