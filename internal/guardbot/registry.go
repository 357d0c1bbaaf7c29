package guardbot

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is an open verification question waiting for the participant's
// free-text answer.
type Session struct {
	UserID   int64
	Question string
	OpenedAt time.Time
}

// PendingApproval is an answered question waiting for the operator.
type PendingApproval struct {
	ID          string
	UserID      int64
	DisplayName string
	Question    string
	Answer      string
	CreatedAt   time.Time
}

// Registry holds in-flight verification state. Nothing here is persisted;
// a restart drops every session and pending approval.
type Registry struct {
	mu        sync.Mutex
	sessions  map[int64]Session
	approvals map[int64]PendingApproval
	now       func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  map[int64]Session{},
		approvals: map[int64]PendingApproval{},
		now:       time.Now,
	}
}

// OpenSession creates (or replaces) the participant's session.
func (r *Registry) OpenSession(userID int64, question string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Session{UserID: userID, Question: question, OpenedAt: r.now().UTC()}
	r.sessions[userID] = s
	return s
}

func (r *Registry) Session(userID int64) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *Registry) DropSession(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// SubmitAnswer consumes the participant's session and records a pending
// approval carrying the question and answer. It reports false when no
// session is open.
func (r *Registry) SubmitAnswer(userID int64, displayName, answer string) (PendingApproval, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return PendingApproval{}, false
	}
	p := PendingApproval{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: displayName,
		Question:    s.Question,
		Answer:      answer,
		CreatedAt:   r.now().UTC(),
	}
	r.approvals[userID] = p
	delete(r.sessions, userID)
	return p, true
}

func (r *Registry) PendingApproval(userID int64) (PendingApproval, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.approvals[userID]
	return p, ok
}

// TakeApproval removes and returns the participant's pending approval.
func (r *Registry) TakeApproval(userID int64) (PendingApproval, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.approvals[userID]
	if ok {
		delete(r.approvals, userID)
	}
	return p, ok
}

func (r *Registry) Counts() (sessions int, approvals int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions), len(r.approvals)
}
