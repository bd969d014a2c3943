// Package keylock provides a mutex per string key, used to serialize
// onboarding turns for the same user so a slow completion call cannot
// race a second turn into a double-advance.
package keylock

import (
	"sync"
	"time"
)

type entry struct {
	mu       sync.Mutex
	lastUsed time.Time
	refs     int
}

// KeyLock hands out one mutex per key and drops entries that have been
// idle long enough, so the map does not grow with every user ever seen.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxIdle time.Duration
}

// New creates a KeyLock. Entries unused for maxIdle are removed by a
// background sweep.
func New(maxIdle time.Duration) *KeyLock {
	kl := &KeyLock{
		entries: make(map[string]*entry),
		maxIdle: maxIdle,
	}

	go kl.sweep()

	return kl
}

// Lock acquires the mutex for key, blocking until it is available.
func (kl *KeyLock) Lock(key string) {
	kl.mu.Lock()
	e, ok := kl.entries[key]
	if !ok {
		e = &entry{}
		kl.entries[key] = e
	}
	e.refs++
	kl.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key.
func (kl *KeyLock) Unlock(key string) {
	kl.mu.Lock()
	e, ok := kl.entries[key]
	if ok {
		e.refs--
		e.lastUsed = time.Now()
	}
	kl.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}

func (kl *KeyLock) sweep() {
	ticker := time.NewTicker(kl.maxIdle)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-kl.maxIdle)

		kl.mu.Lock()
		for key, e := range kl.entries {
			if e.refs == 0 && e.lastUsed.Before(cutoff) {
				delete(kl.entries, key)
			}
		}
		kl.mu.Unlock()
	}
}
