package guardbot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/quailyquaily/topicguard/internal/state"
	"github.com/quailyquaily/topicguard/llm"
	"github.com/stretchr/testify/require"
)

const (
	testOperatorID   int64 = 1000
	testPublicChatID int64 = -100500
	testTopicChatID  int64 = -100600
	testTopicID      int64 = 77
	testUserID       int64 = 42
)

type editCall struct {
	MessageID int64
	Msg       OutboundMessage
}

type deleteCall struct {
	ChatID    int64
	MessageID int64
}

type ackCall struct {
	ID   string
	Text string
}

type fakeGateway struct {
	mu      sync.Mutex
	nextID  int64
	sent    []OutboundMessage
	edits   []editCall
	deletes []deleteCall
	acks    []ackCall

	sendErr   func(OutboundMessage) error
	editErr   error
	deleteErr error
}

func (g *fakeGateway) SendMessage(_ context.Context, msg OutboundMessage) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		if err := g.sendErr(msg); err != nil {
			return 0, err
		}
	}
	g.sent = append(g.sent, msg)
	g.nextID++
	return 900 + g.nextID, nil
}

func (g *fakeGateway) EditMessage(_ context.Context, messageID int64, msg OutboundMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edits = append(g.edits, editCall{MessageID: messageID, Msg: msg})
	return g.editErr
}

func (g *fakeGateway) DeleteMessage(_ context.Context, chatID, messageID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, deleteCall{ChatID: chatID, MessageID: messageID})
	return g.deleteErr
}

func (g *fakeGateway) AnswerCallback(_ context.Context, callbackID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.acks = append(g.acks, ackCall{ID: callbackID, Text: text})
	return nil
}

// sentTo returns the texts delivered to chatID, in order.
func (g *fakeGateway) sentTo(chatID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, m := range g.sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (g *fakeGateway) lastTo(t *testing.T, chatID int64) OutboundMessage {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.sent) - 1; i >= 0; i-- {
		if g.sent[i].ChatID == chatID {
			return g.sent[i]
		}
	}
	t.Fatalf("no message sent to %d", chatID)
	return OutboundMessage{}
}

func (g *fakeGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = nil
	g.edits = nil
	g.deletes = nil
	g.acks = nil
}

type harness struct {
	router  *Router
	gateway *fakeGateway
	backend *state.MemoryBackend
	store   *state.Store
	llmReqs []llm.Request
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	llmFn   func(llm.Request) (llm.Result, error)
	seed    map[string]any
	noLLM   bool
	gateway *fakeGateway
}

func withLLM(fn func(llm.Request) (llm.Result, error)) harnessOption {
	return func(c *harnessConfig) { c.llmFn = fn }
}

func withoutLLM() harnessOption {
	return func(c *harnessConfig) { c.noLLM = true }
}

func withSeed(key string, v any) harnessOption {
	return func(c *harnessConfig) { c.seed[key] = v }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{seed: map[string]any{}, gateway: &fakeGateway{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend := state.NewMemoryBackend()
	for key, v := range cfg.seed {
		require.NoError(t, backend.Seed(key, v))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := state.Open(backend, logger)

	h := &harness{gateway: cfg.gateway, backend: backend, store: store}
	var client llm.Client
	if !cfg.noLLM {
		client = llm.ClientFunc(func(_ context.Context, req llm.Request) (llm.Result, error) {
			h.llmReqs = append(h.llmReqs, req)
			if cfg.llmFn == nil {
				return llm.Result{Text: "ok"}, nil
			}
			return cfg.llmFn(req)
		})
	}

	router, err := NewRouter(Config{
		OperatorID:        testOperatorID,
		PublicChannelID:   testPublicChatID,
		RestrictedChatID:  testTopicChatID,
		RestrictedTopicID: testTopicID,
		Model:             "test-model",
	}, Dependencies{
		Gateway:  h.gateway,
		Store:    store,
		Registry: NewRegistry(),
		LLM:      client,
		Logger:   logger,
	})
	require.NoError(t, err)
	h.router = router
	return h
}

var (
	participant = Participant{ID: testUserID, DisplayName: "Layla"}
	operator    = Participant{ID: testOperatorID, DisplayName: "Admin"}
)

// captureLogs redirects the router's logger into the returned buffer.
func (h *harness) captureLogs() *bytes.Buffer {
	var buf bytes.Buffer
	h.router.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf
}

func (h *harness) press(from Participant, data string) {
	h.router.HandleCallback(context.Background(), InboundCallback{ID: "cb-" + data, From: from, Data: data})
}

func (h *harness) say(from Participant, text string) {
	h.router.HandleMessage(context.Background(), InboundMessage{
		ChatID:    from.ID,
		MessageID: 1,
		From:      from,
		Text:      text,
	})
}
