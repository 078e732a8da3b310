package keyedmutex

import "sync"

// KeyedMutex serializes work per key. Chat-log mutations are read-modify-write
// cycles over one jsonb document, so every mutation of a session must run
// under that session's lock or concurrent writers lose updates.
//
// Locks are never evicted; the entry per live session id is a few dozen bytes,
// which is acceptable for a single-process deployment.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
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
