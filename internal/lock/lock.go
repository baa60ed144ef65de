// Package lock provides the synchronization strategies used by the batch
// iterator: a spin/park lock specialized for exactly one producer and one
// consumer goroutine, and a general mutex-based fallback.
//
// Both strategies expose the same Locker interface. A Locker combines mutual
// exclusion with a condition-variable style Signal/Await pair where waiters
// are addressed by their Role rather than by goroutine identity.
package lock

import "time"

// Role identifies which side of the iterator a goroutine acts for.
type Role uint8

const (
	// Producer is the goroutine feeding items.
	Producer Role = iota
	// Consumer is the goroutine pulling batches.
	Consumer
	// Control is used by occasional callers such as configuration setters and
	// Close. It is never reentrant and never awaits, so any goroutine may use it.
	Control

	numRoles = 3
)

// String returns the name of the role.
func (r Role) String() string {
	switch r {
	case Producer:
		return "producer"
	case Consumer:
		return "consumer"
	case Control:
		return "control"
	default:
		return "unknown"
	}
}

func (r Role) reentrant() bool {
	return r == Producer || r == Consumer
}

// Locker is the synchronization strategy behind the batch iterator.
type Locker interface {
	// Lock acquires the lock on behalf of role.
	Lock(role Role)

	// Unlock releases the lock held by role. Signals requested while the lock
	// was held are delivered on the final release.
	Unlock(role Role)

	// Signal requests that the goroutine awaiting as role be woken when the lock
	// is next released. The caller must hold the lock.
	Signal(role Role)

	// Await releases the lock, parks until signalled and reacquires the lock.
	// Wakeups may be spurious, so callers re-check their condition in a loop.
	Await(role Role)

	// AwaitTimeout is Await bounded by d. It returns the part of d that was not
	// spent waiting, which is zero when the timeout expired.
	AwaitTimeout(role Role, d time.Duration) time.Duration
}
