//go:build windows

package fsstore

import (
	"errors"
	"fmt"
	"os"
)

// lockFile uses exclusive creation; the file's existence is the lock.
func lockFile(path string, wait func() error) (*os.File, error) {
	for {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, defaultFilePerm)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: open %s: %v", ErrLockUnavailable, path, err)
		}
		if wait == nil {
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, path)
		}
		if waitErr := wait(); waitErr != nil {
			return nil, waitErr
		}
	}
}

func releaseFile(path string, file *os.File) error {
	if file == nil {
		return nil
	}
	err := file.Close()
	_ = os.Remove(path)
	return err
}
