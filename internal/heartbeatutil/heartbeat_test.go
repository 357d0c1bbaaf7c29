package heartbeatutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStateAlertsOncePerStreak(t *testing.T) {
	s := New(2)
	boom := errors.New("dial tcp: refused")

	if alert, _ := s.EndFailure(boom); alert {
		t.Fatalf("first failure alerted")
	}
	alert, msg := s.EndFailure(boom)
	if !alert || !strings.Contains(msg, "2 consecutive failures") || !strings.Contains(msg, "refused") {
		t.Fatalf("second failure = %v %q, want alert", alert, msg)
	}
	if alert, _ := s.EndFailure(boom); alert {
		t.Fatalf("third failure alerted again")
	}
	if snap := s.Snapshot(); snap.Healthy || snap.Failures != 3 {
		t.Fatalf("Snapshot() = %+v, want unhealthy with 3 failures", snap)
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if !s.EndSuccess(now) {
		t.Fatalf("EndSuccess() recovered = false, want true")
	}
	snap := s.Snapshot()
	if !snap.Healthy || snap.Failures != 0 || snap.LastError != "" || !snap.LastSuccess.Equal(now) {
		t.Fatalf("Snapshot() after success = %+v", snap)
	}
	if s.EndSuccess(now) {
		t.Fatalf("second EndSuccess() reported recovery")
	}
}

func TestNilStateSnapshotIsHealthy(t *testing.T) {
	var s *State
	if !s.Snapshot().Healthy {
		t.Fatalf("nil Snapshot() unhealthy")
	}
}

func TestNewDefaultsThreshold(t *testing.T) {
	s := New(0)
	for i := 0; i < DefaultFailureThreshold-1; i++ {
		if alert, _ := s.EndFailure(nil); alert {
			t.Fatalf("alert after %d failures", i+1)
		}
	}
	if alert, _ := s.EndFailure(nil); !alert {
		t.Fatalf("no alert at default threshold")
	}
}
