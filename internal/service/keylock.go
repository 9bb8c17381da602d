package service

import "sync"

// keyLock serializes read-then-write sequences that share a key: the
// per-reference quota count and mutations of a single train. This only
// guards within one process; cross-process callers need a storage
// constraint. Entries are never reclaimed, which is acceptable for the
// key cardinality involved here.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyLock) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
