package telegram

import (
	"strings"
	"time"
)

type RunOptions struct {
	PollTimeout  time.Duration
	ErrorBackoff time.Duration
	GetMeBackoff time.Duration
	HealthListen string
}

type runtimeLoopOptions struct {
	PollTimeout  time.Duration
	ErrorBackoff time.Duration
	GetMeBackoff time.Duration
	HealthListen string
}

func resolveRuntimeLoopOptionsFromRunOptions(opts RunOptions) runtimeLoopOptions {
	return normalizeRuntimeLoopOptions(runtimeLoopOptions{
		PollTimeout:  opts.PollTimeout,
		ErrorBackoff: opts.ErrorBackoff,
		GetMeBackoff: opts.GetMeBackoff,
		HealthListen: opts.HealthListen,
	})
}

func normalizeRuntimeLoopOptions(opts runtimeLoopOptions) runtimeLoopOptions {
	opts.HealthListen = strings.TrimSpace(opts.HealthListen)
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30 * time.Second
	}
	if opts.PollTimeout < time.Second {
		opts.PollTimeout = time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = time.Second
	}
	if opts.GetMeBackoff <= 0 {
		opts.GetMeBackoff = 2 * time.Second
	}
	return opts
}
