// Package syncx provides a keyed mutex: calls sharing a key run one at a
// time, calls with different keys never wait on each other.
package syncx

import (
	"context"
	"sync"
)

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// With runs fn while holding the lock for key. Waiting for the lock is
// abandoned when ctx is done; fn itself is not interrupted.
func (k *KeyedMutex) With(ctx context.Context, key string, fn func(context.Context) error) error {
	l := k.acquireRef(key)
	defer k.releaseRef(key, l)

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	return fn(ctx)
}

// Busy reports whether some caller currently holds or waits on key.
func (k *KeyedMutex) Busy(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.locks[key]
	return ok
}

func (k *KeyedMutex) acquireRef(key string) *keyLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *KeyedMutex) releaseRef(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
