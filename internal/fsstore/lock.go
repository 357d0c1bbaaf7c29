package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	lockKeyMaxLen = 120
	lockRetryWait = 25 * time.Millisecond
)

// BuildLockPath returns <lockRoot>/<lockKey>.lck. Keys are lowercase
// [a-z0-9._-] and may not start or end with a dot.
func BuildLockPath(lockRoot string, lockKey string) (string, error) {
	lockRoot, err := normalizePath(lockRoot)
	if err != nil {
		return "", err
	}
	lockKey = strings.TrimSpace(lockKey)
	switch {
	case lockKey == "":
		return "", fmt.Errorf("%w: empty lock key", ErrInvalidPath)
	case len(lockKey) > lockKeyMaxLen:
		return "", fmt.Errorf("%w: lock key too long", ErrInvalidPath)
	case strings.HasPrefix(lockKey, ".") || strings.HasSuffix(lockKey, "."):
		return "", fmt.Errorf("%w: lock key cannot start or end with dot", ErrInvalidPath)
	}
	if i := strings.IndexFunc(lockKey, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '.' && r != '_' && r != '-'
	}); i >= 0 {
		return "", fmt.Errorf("%w: invalid lock key character %q", ErrInvalidPath, lockKey[i])
	}
	return filepath.Join(lockRoot, lockKey+".lck"), nil
}

// Lock is an exclusive advisory lock on one lock file. It is released
// explicitly; Release is safe to call more than once.
type Lock struct {
	path string
	file *os.File
	once sync.Once
	err  error
}

func (l *Lock) Path() string { return l.path }

func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	l.once.Do(func() { l.err = releaseFile(l.path, l.file) })
	return l.err
}

// Acquire waits for the lock until ctx is done.
func Acquire(ctx context.Context, lockPath string) (*Lock, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return acquire(lockPath, func() error { return waitForLockRetry(ctx, lockPath) })
}

// TryAcquire returns ErrLockHeld at once if another holder has the lock.
func TryAcquire(lockPath string) (*Lock, error) {
	return acquire(lockPath, nil)
}

// WithLock runs fn while holding the lock at lockPath.
func WithLock(ctx context.Context, lockPath string, fn func() error) error {
	if fn == nil {
		_, err := normalizePath(lockPath)
		return err
	}
	l, err := Acquire(ctx, lockPath)
	if err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// acquire opens the lock file and locks it. A nil wait means fail fast.
func acquire(lockPath string, wait func() error) (*Lock, error) {
	normalized, err := normalizePath(lockPath)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(filepath.Dir(normalized), defaultDirPerm); err != nil {
		return nil, err
	}
	file, err := lockFile(normalized, wait)
	if err != nil {
		return nil, err
	}
	writeLockOwner(file)
	return &Lock{path: normalized, file: file}, nil
}

// writeLockOwner leaves "<pid> <time>" in the lock file for whoever has to
// inspect a stuck lock by hand.
func writeLockOwner(file *os.File) {
	line := strconv.Itoa(os.Getpid()) + " " + time.Now().UTC().Format(time.RFC3339Nano) + "\n"
	_ = file.Truncate(0)
	_, _ = file.Seek(0, 0)
	_, _ = file.WriteString(line)
}

func waitForLockRetry(ctx context.Context, lockPath string) error {
	timer := time.NewTimer(lockRetryWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", ErrLockTimeout, lockPath, ctx.Err())
	case <-timer.C:
		return nil
	}
}
