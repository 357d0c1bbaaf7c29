package state

import "context"

// Backend is the narrow persistence surface the bot depends on. Set stages a
// whole document under key; Flush makes every staged document durable.
type Backend interface {
	Get(key string, out any) (bool, error)
	Set(key string, v any) error
	Flush(ctx context.Context) error
}
