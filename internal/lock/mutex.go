package lock

import (
	"sync"
	"time"
)

// Mutex is the general-purpose Locker. It tolerates any number of goroutines
// per Role, at the cost of a channel allocation per delivered signal. It is
// not reentrant.
type Mutex struct {
	mu      sync.Mutex
	notify  [numRoles]chan struct{}
	pending [numRoles]bool
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	m := &Mutex{}
	for i := range m.notify {
		m.notify[i] = make(chan struct{})
	}
	return m
}

// Lock implements Locker.
func (m *Mutex) Lock(Role) {
	m.mu.Lock()
}

// Unlock implements Locker. Every goroutine awaiting a signalled role is woken.
func (m *Mutex) Unlock(Role) {
	for i := range m.pending {
		if m.pending[i] {
			m.pending[i] = false
			close(m.notify[i])
			m.notify[i] = make(chan struct{})
		}
	}
	m.mu.Unlock()
}

// Signal implements Locker.
func (m *Mutex) Signal(role Role) {
	m.pending[role] = true
}

// Await implements Locker.
func (m *Mutex) Await(role Role) {
	ch := m.notify[role]
	m.Unlock(role)
	<-ch
	m.mu.Lock()
}

// AwaitTimeout implements Locker.
func (m *Mutex) AwaitTimeout(role Role, d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	ch := m.notify[role]
	m.Unlock(role)
	start := time.Now()
	t := time.NewTimer(d)
	select {
	case <-ch:
		t.Stop()
	case <-t.C:
	}
	remaining := d - time.Since(start)
	m.mu.Lock()
	if remaining < 0 {
		return 0
	}
	return remaining
}
