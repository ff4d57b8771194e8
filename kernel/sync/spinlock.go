// Package sync provides the synchronization primitives that are usable before
// a scheduler exists.
package sync

import "sync/atomic"

// spinAttemptsBeforeYielding defines how many times Acquire polls a held lock
// before invoking yieldFn.
const spinAttemptsBeforeYielding = 64

var (
	// yieldFn is invoked while spinning on a held lock. It stays nil until a
	// scheduler can offer something better than busy-waiting.
	yieldFn func()
)

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available. There is no queueing, no priority and no
// timeout. The zero value is an unlocked Spinlock.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	acquireSpinlock(&l.state, spinAttemptsBeforeYielding)
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// acquireSpinlock polls state with atomic loads and only attempts the CAS
// once the lock looks free.
func acquireSpinlock(state *uint32, attemptsBeforeYielding uint32) {
	for {
		if atomic.CompareAndSwapUint32(state, 0, 1) {
			return
		}

		for attempt := uint32(0); attempt < attemptsBeforeYielding; attempt++ {
			if atomic.LoadUint32(state) == 0 {
				break
			}
		}

		if yieldFn != nil {
			yieldFn()
		}
	}
}
