package telegram

import (
	"testing"
	"time"
)

func TestResolveRuntimeLoopOptionsFromRunOptions(t *testing.T) {
	got := resolveRuntimeLoopOptionsFromRunOptions(RunOptions{
		PollTimeout:  45 * time.Second,
		ErrorBackoff: 3 * time.Second,
		GetMeBackoff: 5 * time.Second,
		HealthListen: " 127.0.0.1:8080 ",
	})
	if got.PollTimeout != 45*time.Second {
		t.Fatalf("poll timeout = %v, want 45s", got.PollTimeout)
	}
	if got.ErrorBackoff != 3*time.Second || got.GetMeBackoff != 5*time.Second {
		t.Fatalf("backoffs = %v/%v, want 3s/5s", got.ErrorBackoff, got.GetMeBackoff)
	}
	if got.HealthListen != "127.0.0.1:8080" {
		t.Fatalf("health listen = %q, want 127.0.0.1:8080", got.HealthListen)
	}
}

func TestNormalizeRuntimeLoopOptionsDefaults(t *testing.T) {
	got := normalizeRuntimeLoopOptions(runtimeLoopOptions{})
	if got.PollTimeout != 30*time.Second {
		t.Fatalf("poll timeout = %v, want 30s", got.PollTimeout)
	}
	if got.ErrorBackoff != time.Second {
		t.Fatalf("error backoff = %v, want 1s", got.ErrorBackoff)
	}
	if got.GetMeBackoff != 2*time.Second {
		t.Fatalf("getMe backoff = %v, want 2s", got.GetMeBackoff)
	}
	if got.HealthListen != "" {
		t.Fatalf("health listen = %q, want empty", got.HealthListen)
	}

	got = normalizeRuntimeLoopOptions(runtimeLoopOptions{PollTimeout: 200 * time.Millisecond})
	if got.PollTimeout != time.Second {
		t.Fatalf("poll timeout = %v, want 1s floor", got.PollTimeout)
	}
}
