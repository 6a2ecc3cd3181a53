package fileio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout bounds how long Acquire waits for another writer.
const DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 25 * time.Millisecond

// Locker hands out exclusive per-name locks. Inside one process a mutex per
// name serializes callers; across processes an advisory flock on
// <dir>/<name>.lock does the same.
type Locker struct {
	dir     string
	timeout time.Duration

	mu     sync.Mutex
	byName map[string]*nameLock
}

// nameLock is dropped from byName once no caller holds or waits on it.
type nameLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates a Locker that keeps its lock files in dir. A
// non-positive timeout falls back to DefaultLockTimeout.
func NewLocker(dir string, timeout time.Duration) *Locker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &Locker{
		dir:     dir,
		timeout: timeout,
		byName:  make(map[string]*nameLock),
	}
}

// Acquire blocks until name is held exclusively, ctx is done, or the lock
// timeout expires. The returned release func must be called exactly once.
func (l *Locker) Acquire(ctx context.Context, name string) (func(), error) {
	nl := l.ref(name)
	nl.mu.Lock()
	fail := func(err error) (func(), error) {
		nl.mu.Unlock()
		l.unref(name, nl)
		return nil, err
	}

	if err := os.MkdirAll(l.dir, dirPerm); err != nil {
		return fail(fmt.Errorf("%w: create lock dir: %w", ErrIO, err))
	}

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	fl := flock.New(filepath.Join(l.dir, name+".lock"))
	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = lockCtx.Err()
		}
		return fail(fmt.Errorf("%w: lock %s: %w", ErrIO, name, err))
	}

	return func() {
		_ = fl.Unlock()
		nl.mu.Unlock()
		l.unref(name, nl)
	}, nil
}

func (l *Locker) ref(name string) *nameLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	nl, ok := l.byName[name]
	if !ok {
		nl = &nameLock{}
		l.byName[name] = nl
	}
	nl.refs++
	return nl
}

func (l *Locker) unref(name string, nl *nameLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nl.refs--
	if nl.refs == 0 {
		delete(l.byName, name)
	}
}
