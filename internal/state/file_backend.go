package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/quailyquaily/topicguard/internal/fsstore"
)

// FileBackend keeps one whole-document file per key. Staged documents are
// written with temp-file+rename while holding an advisory flock, so a crash
// mid-write never leaves a truncated document behind.
type FileBackend struct {
	paths    map[string]string
	lockPath string
	opts     fsstore.FileOptions

	mu     sync.Mutex
	staged map[string]any
}

type FileBackendOptions struct {
	BotDataPath       string
	VerifiedUsersPath string
	LastPromptPath    string
	LockDir           string
	FileOptions       fsstore.FileOptions
}

func NewFileBackend(opts FileBackendOptions) (*FileBackend, error) {
	lockPath, err := fsstore.BuildLockPath(opts.LockDir, "state.flush")
	if err != nil {
		return nil, fmt.Errorf("state lock path: %w", err)
	}
	return &FileBackend{
		paths: map[string]string{
			KeyBotData:       opts.BotDataPath,
			KeyVerifiedUsers: opts.VerifiedUsersPath,
			KeyLastPrompt:    opts.LastPromptPath,
		},
		lockPath: lockPath,
		opts:     opts.FileOptions,
		staged:   map[string]any{},
	}, nil
}

func (b *FileBackend) Get(key string, out any) (bool, error) {
	path, err := b.pathFor(key)
	if err != nil {
		return false, err
	}
	b.mu.Lock()
	v, ok := b.staged[key]
	b.mu.Unlock()
	if ok {
		raw, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("%w: encode staged %s: %v", fsstore.ErrEncodeFailed, key, err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("%w: decode staged %s: %v", fsstore.ErrDecodeFailed, key, err)
		}
		return true, nil
	}
	if key == KeyBotData && isMarkdownPath(path) {
		return readMarkdownBotData(path, out)
	}
	return fsstore.ReadDocument(path, out)
}

func (b *FileBackend) Set(key string, v any) error {
	if _, err := b.pathFor(key); err != nil {
		return err
	}
	b.mu.Lock()
	b.staged[key] = v
	b.mu.Unlock()
	return nil
}

func (b *FileBackend) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.staged) == 0 {
		return nil
	}
	keys := make([]string, 0, len(b.staged))
	for k := range b.staged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fsstore.WithLock(ctx, b.lockPath, func() error {
		for _, k := range keys {
			if err := fsstore.WriteJSONAtomic(b.paths[k], b.staged[k], b.opts); err != nil {
				return err
			}
			delete(b.staged, k)
		}
		return nil
	})
}

func (b *FileBackend) pathFor(key string) (string, error) {
	path, ok := b.paths[key]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return path, nil
}
