// Package heartbeatutil tracks whether a recurring background step, such as
// the getUpdates long poll, is still succeeding.
package heartbeatutil

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const DefaultFailureThreshold = 3

// State counts consecutive failures. It raises an alert once the count
// reaches the threshold and stays unhealthy until the next success.
type State struct {
	mu          sync.Mutex
	threshold   int
	failures    int
	alerted     bool
	lastSuccess time.Time
	lastError   string
}

func New(threshold int) *State {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	return &State{threshold: threshold}
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	Failures    int
	LastSuccess time.Time
	LastError   string
	Healthy     bool
}

// EndSuccess resets the failure streak. It reports whether the state was
// previously alerting, so callers can log recovery once.
func (s *State) EndSuccess(now time.Time) (recovered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recovered = s.alerted
	s.failures = 0
	s.alerted = false
	s.lastError = ""
	s.lastSuccess = now
	return recovered
}

// EndFailure records one failure. The alert fires exactly once per streak,
// when the streak reaches the threshold.
func (s *State) EndFailure(err error) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
	if err != nil {
		s.lastError = strings.TrimSpace(err.Error())
	}
	if s.alerted || s.failures < s.limit() {
		return false, ""
	}
	s.alerted = true
	msg := fmt.Sprintf("%d consecutive failures", s.failures)
	if s.lastError != "" {
		msg = fmt.Sprintf("%s (%s)", msg, s.lastError)
	}
	return true, msg
}

func (s *State) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{Healthy: true}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Failures:    s.failures,
		LastSuccess: s.lastSuccess,
		LastError:   s.lastError,
		Healthy:     s.failures < s.limit(),
	}
}

func (s *State) limit() int {
	if s.threshold <= 0 {
		return DefaultFailureThreshold
	}
	return s.threshold
}
