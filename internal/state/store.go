package state

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Store is the working copy of everything that survives a restart. Every
// mutation is staged on the backend and flushed before returning.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu         sync.Mutex
	botData    BotData
	verified   VerifiedUsers
	lastPrompt LastPrompt
}

// Open loads the three documents. Read or decode failures are logged and
// replaced with defaults; Open itself never fails.
func Open(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend:  backend,
		logger:   logger,
		botData:  defaultBotData(),
		verified: VerifiedUsers{},
	}

	var botData BotData
	if ok, err := backend.Get(KeyBotData, &botData); err != nil {
		logger.Warn("state_bot_data_load_error", "error", err.Error())
	} else if !ok {
		logger.Warn("state_bot_data_missing")
	} else {
		if botData.VerificationKeywords == nil {
			botData.VerificationKeywords = []string{}
		}
		s.botData = botData
	}

	var verified VerifiedUsers
	if ok, err := backend.Get(KeyVerifiedUsers, &verified); err != nil {
		logger.Warn("state_verified_users_load_error", "error", err.Error())
	} else if ok && verified != nil {
		s.verified = verified
	}

	var last LastPrompt
	if ok, err := backend.Get(KeyLastPrompt, &last); err != nil {
		logger.Warn("state_last_prompt_load_error", "error", err.Error())
	} else if ok {
		s.lastPrompt = last
	}

	logger.Info("state_loaded",
		"verified_users", len(s.verified),
		"has_last_prompt", s.lastPrompt.MessageID != nil,
		"reference_chars", len(s.botData.VerificationReference),
	)
	return s
}

func (s *Store) BotData() BotData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.botData
	out.VerificationKeywords = append([]string(nil), s.botData.VerificationKeywords...)
	return out
}

func (s *Store) IsVerified(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[userKey(userID)]
}

// VerifiedUserIDs lists verified participants in ascending order. Keys that
// are not numeric or are stored as false are skipped.
func (s *Store) VerifiedUserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.verified))
	for k, ok := range s.verified {
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MarkVerified records userID as verified and flushes the verified set.
// The in-memory entry is kept even if the flush fails.
func (s *Store) MarkVerified(ctx context.Context, userID int64) error {
	s.mu.Lock()
	s.verified[userKey(userID)] = true
	snapshot := make(VerifiedUsers, len(s.verified))
	for k, v := range s.verified {
		snapshot[k] = v
	}
	s.mu.Unlock()

	if err := s.backend.Set(KeyVerifiedUsers, snapshot); err != nil {
		return fmt.Errorf("stage verified users: %w", err)
	}
	if err := s.backend.Flush(ctx); err != nil {
		return fmt.Errorf("flush verified users: %w", err)
	}
	return nil
}

func (s *Store) LastPromptID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPrompt.MessageID == nil || *s.lastPrompt.MessageID == 0 {
		return 0, false
	}
	return *s.lastPrompt.MessageID, true
}

func (s *Store) SetLastPromptID(ctx context.Context, messageID int64) error {
	id := messageID
	s.mu.Lock()
	s.lastPrompt = LastPrompt{MessageID: &id}
	s.mu.Unlock()

	if err := s.backend.Set(KeyLastPrompt, LastPrompt{MessageID: &id}); err != nil {
		return fmt.Errorf("stage last prompt: %w", err)
	}
	if err := s.backend.Flush(ctx); err != nil {
		return fmt.Errorf("flush last prompt: %w", err)
	}
	return nil
}

func userKey(userID int64) string {
	return strings.TrimSpace(strconv.FormatInt(userID, 10))
}
