package locks

import (
	"sync"
	"sync/atomic"

	"github.com/tdhoang91/go-btreemap/pkg/runtime"
)

// spinCycles is the PAUSE budget per failed acquisition attempt.
const spinCycles = 30

// SpinLock is a test-and-test-and-set spinlock.
// The zero value is an unlocked lock. It is not reentrant.
type SpinLock struct {
	state uint32
}

// NewSpinLock returns a spinlock as a sync.Locker.
func NewSpinLock() sync.Locker {
	return &SpinLock{}
}

// Lock acquires the lock, spinning with PAUSE until it is free.
func (l *SpinLock) Lock() {
	for {
		if atomic.LoadUint32(&l.state) == 0 &&
			atomic.CompareAndSwapUint32(&l.state, 0, 1) {
			return
		}
		runtime.Procyield(spinCycles)
	}
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	atomic.StoreUint32(&l.state, 0)
}

// TryLock acquires the lock without spinning.
func (l *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}
