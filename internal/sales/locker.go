package sales

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLocker hands out one mutex per sale id so that load-modify-save
// cycles on the same sale never interleave. Entries are dropped once no
// goroutine holds or waits for them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[uuid.UUID]*keyedLock)}
}

// Lock blocks until the lock for id is held and returns its release func.
func (k *keyedLocker) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &keyedLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
