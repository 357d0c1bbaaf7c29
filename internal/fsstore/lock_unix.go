//go:build !windows

package fsstore

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes a flock on path. The file stays in place after release so
// concurrent holders always lock the same inode.
func lockFile(path string, wait func() error) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, defaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLockUnavailable, path, err)
	}
	fd := int(file.Fd())
	for {
		err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		switch {
		case err == nil:
			return file, nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN):
			if wait == nil {
				_ = file.Close()
				return nil, fmt.Errorf("%w: %s", ErrLockHeld, path)
			}
			if waitErr := wait(); waitErr != nil {
				_ = file.Close()
				return nil, waitErr
			}
		default:
			_ = file.Close()
			return nil, fmt.Errorf("%w: flock %s: %v", ErrLockUnavailable, path, err)
		}
	}
}

func releaseFile(_ string, file *os.File) error {
	if file == nil {
		return nil
	}
	_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
	return file.Close()
}
