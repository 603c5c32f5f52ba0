package ctxsync_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/ctxsync"
)

// Multiple goroutines should not be able to acquire the write lock at once.
func TestLock(t *testing.T) {
	workers := 1000

	n := 0
	mu := ctxsync.NewRWMutex()

	getReady := sync.WaitGroup{} // called before locking on ch
	add := sync.WaitGroup{}      // called after adding 1 to n

	getReady.Add(workers)
	add.Add(workers)

	ch := make(chan struct{})

	for range workers {
		go func() {
			defer add.Done()
			getReady.Done()
			<-ch
			mu.Lock()
			defer mu.Unlock()
			n++
		}()
	}

	getReady.Wait()
	close(ch)
	add.Wait()

	assert.Equal(t, workers, n)
}

// Readers should share the lock.
func TestRLockShared(t *testing.T) {
	mu := ctxsync.NewRWMutex()

	mu.RLock()
	assert.True(t, mu.TryRLock())
	assert.False(t, mu.TryLock())

	mu.RUnlock()
	mu.RUnlock()
	assert.True(t, mu.TryLock())
	mu.Unlock()
}

// A writer excludes readers and other writers.
func TestLockExcludes(t *testing.T) {
	mu := ctxsync.NewRWMutex()

	mu.Lock()
	assert.False(t, mu.TryRLock())
	assert.False(t, mu.TryLock())
	mu.Unlock()

	assert.True(t, mu.TryRLock())
	mu.RUnlock()
}

// Waiting for the lock should stop when the context is done.
func TestLockWithContext(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	mu.Lock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mu.RLockWithContext(ctx), context.DeadlineExceeded)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel2()
	assert.ErrorIs(t, mu.LockWithContext(ctx2), context.DeadlineExceeded)

	// a failed attempt leaves the lock as it was
	mu.Unlock()
	assert.NoError(t, mu.LockWithContext(context.Background()))
	mu.Unlock()
}

// A reader blocked by a writer should get the lock once it is released.
func TestRLockAfterUnlock(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	mu.Lock()

	done := make(chan error)
	go func() {
		done <- mu.RLockWithContext(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("read lock acquired while write locked")
	case <-time.After(10 * time.Millisecond):
	}

	mu.Unlock()
	assert.NoError(t, <-done)
	mu.RUnlock()
}

// Unlocking a mutex that is not locked is a programming error.
func TestUnlockUnlocked(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	assert.Panics(t, mu.Unlock)
	assert.Panics(t, mu.RUnlock)
}
