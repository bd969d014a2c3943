package keylock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	kl := New(time.Minute)

	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			kl.Lock("user-1")
			defer kl.Unlock("user-1")

			n := atomic.AddInt32(&inside, 1)
			for {
				max := atomic.LoadInt32(&maxInside)
				if n <= max || atomic.CompareAndSwapInt32(&maxInside, max, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
}

func TestKeyLockDifferentKeysDoNotBlock(t *testing.T) {
	kl := New(time.Minute)

	kl.Lock("user-1")
	defer kl.Unlock("user-1")

	done := make(chan struct{})
	go func() {
		kl.Lock("user-2")
		kl.Unlock("user-2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyLockSweepDropsIdleEntries(t *testing.T) {
	kl := New(20 * time.Millisecond)

	kl.Lock("user-1")
	kl.Unlock("user-1")

	assert.Eventually(t, func() bool {
		kl.mu.Lock()
		defer kl.mu.Unlock()
		return len(kl.entries) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestKeyLockSweepKeepsHeldEntries(t *testing.T) {
	kl := New(20 * time.Millisecond)

	kl.Lock("user-1")
	defer kl.Unlock("user-1")

	time.Sleep(100 * time.Millisecond)

	kl.mu.Lock()
	defer kl.mu.Unlock()
	assert.Len(t, kl.entries, 1)
}
