package guardbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/internal/telegramutil"
	"github.com/quailyquaily/topicguard/llm"
)

type Config struct {
	OperatorID        int64
	PublicChannelID   int64
	PromptTopicID     int64
	RestrictedChatID  int64
	RestrictedTopicID int64

	Model       string
	Temperature float64
	MaxTokens   int
}

type Dependencies struct {
	Gateway  Gateway
	Store    Store
	Registry *Registry
	LLM      llm.Client
	Logger   *slog.Logger
	Now      func() time.Time
}

// Router dispatches inbound events to the restriction enforcer, the
// command handlers and the verification workflow.
type Router struct {
	cfg      Config
	gateway  Gateway
	store    Store
	registry *Registry
	llm      llm.Client
	logger   *slog.Logger
}

func NewRouter(cfg Config, deps Dependencies) (*Router, error) {
	if deps.Gateway == nil {
		return nil, fmt.Errorf("guardbot: gateway is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("guardbot: store is required")
	}
	if cfg.OperatorID == 0 {
		return nil, fmt.Errorf("guardbot: operator id is required")
	}
	registry := deps.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	if deps.Now != nil {
		registry.now = deps.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:      cfg,
		gateway:  deps.Gateway,
		store:    deps.Store,
		registry: registry,
		llm:      deps.LLM,
		logger:   logger,
	}, nil
}

func (r *Router) Registry() *Registry {
	return r.registry
}

// HandleMessage processes one inbound text message. Failures are logged;
// nothing is returned to the caller.
func (r *Router) HandleMessage(ctx context.Context, msg InboundMessage) {
	if r.enforceRestriction(ctx, msg) {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	cmd, arg := telegramutil.SplitCommand(text)
	switch cmd {
	case "":
		r.captureAnswer(ctx, msg.From, text)
	case "/sendverify":
		r.publishPrompt(ctx, msg.From)
	case "/chat":
		if arg == "" {
			return
		}
		r.answerQuestion(ctx, msg.From, arg)
	default:
		r.logger.Debug("command_ignored", "command", cmd, "user_id", msg.From.ID)
	}
}

// HandleCallback processes one inline-button press. The callback is always
// acknowledged, whatever branch is taken.
func (r *Router) HandleCallback(ctx context.Context, cb InboundCallback) {
	notice := ""
	defer func() {
		if err := r.gateway.AnswerCallback(ctx, cb.ID, notice); err != nil {
			r.logger.Warn("callback_ack_error", "callback_id", cb.ID, "error", err.Error())
		}
	}()

	parsed, err := ParseCallback(cb.Data)
	if err != nil {
		r.logger.Warn("callback_payload_invalid", "user_id", cb.From.ID, "data", cb.Data, "error", err.Error())
		notice = textInvalidAction
		return
	}
	switch parsed.Kind {
	case CallbackStartVerification:
		notice = r.apply(ctx, cb.From)
	case CallbackApprove, CallbackReject:
		notice = r.decide(ctx, cb.From, parsed)
	}
}

func (r *Router) send(ctx context.Context, msg OutboundMessage) (int64, error) {
	id, err := r.gateway.SendMessage(ctx, msg)
	if err != nil {
		r.logger.Warn("telegram_send_error", "chat_id", msg.ChatID, "error", err.Error())
		return 0, err
	}
	return id, nil
}

func (r *Router) sendText(ctx context.Context, chatID int64, text string) error {
	_, err := r.send(ctx, OutboundMessage{ChatID: chatID, Text: text})
	return err
}
