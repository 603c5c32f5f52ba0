// Package ctxsync contains synchronization primitives whose lock methods give
// up when a context is done.
package ctxsync

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// maxReaders is the number of read locks that can be held at once. A write
// lock holds all of them.
const maxReaders = 1 << 30

// NewRWMutex creates a new instance of RWMutex.
func NewRWMutex() *RWMutex {
	return &RWMutex{
		sem: semaphore.NewWeighted(maxReaders),
	}
}

// An RWMutex is a reader/writer mutual exclusion lock. Lock requests are
// served in order, so a waiting writer blocks readers arriving after it.
type RWMutex struct {
	sem *semaphore.Weighted
}

// Lock locks the mutex for writing with a context.Background()
func (m *RWMutex) Lock() {
	_ = m.LockWithContext(context.Background())
}

// LockWithContext locks for writing until Unlock is called or context is
// cancelled.
func (m *RWMutex) LockWithContext(ctx context.Context) error {
	return m.sem.Acquire(ctx, maxReaders)
}

// TryLock tries to lock m for writing and reports whether it succeeded.
func (m *RWMutex) TryLock() bool {
	return m.sem.TryAcquire(maxReaders)
}

// Unlock unlocks m for writing. It panics if m is not locked for writing.
func (m *RWMutex) Unlock() {
	m.sem.Release(maxReaders)
}

// RLock locks the mutex for reading with a context.Background()
func (m *RWMutex) RLock() {
	_ = m.RLockWithContext(context.Background())
}

// RLockWithContext locks for reading until RUnlock is called or context is
// cancelled.
func (m *RWMutex) RLockWithContext(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// TryRLock tries to lock m for reading and reports whether it succeeded.
func (m *RWMutex) TryRLock() bool {
	return m.sem.TryAcquire(1)
}

// RUnlock undoes a single RLock call.
func (m *RWMutex) RUnlock() {
	m.sem.Release(1)
}
