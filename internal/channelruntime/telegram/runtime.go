// Package telegram runs the long-poll loop that feeds Bot API updates to the
// moderation router.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quailyquaily/topicguard/internal/guardbot"
	"github.com/quailyquaily/topicguard/internal/healthcheck"
	"github.com/quailyquaily/topicguard/internal/heartbeatutil"
	"github.com/quailyquaily/topicguard/internal/telegramapi"
	"github.com/quailyquaily/topicguard/internal/telegramutil"
)

// Handler consumes decoded updates. Calls are made one at a time.
type Handler interface {
	HandleMessage(ctx context.Context, msg guardbot.InboundMessage)
	HandleCallback(ctx context.Context, cb guardbot.InboundCallback)
}

type Dependencies struct {
	API     *telegramapi.Client
	Handler Handler
	Logger  *slog.Logger
	// OnReady is called once getMe succeeds, before the first poll.
	OnReady func(me *telegramapi.User)
	// Heartbeat tracks getUpdates outcomes; nil gets a private tracker.
	Heartbeat *heartbeatutil.State
}

// Run polls until ctx is canceled. It returns nil on a clean stop.
func Run(ctx context.Context, d Dependencies, opts RunOptions) error {
	if d.API == nil {
		return fmt.Errorf("telegram api client is required")
	}
	if d.Handler == nil {
		return fmt.Errorf("telegram update handler is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return runTelegramLoop(ctx, d, logger, resolveRuntimeLoopOptionsFromRunOptions(opts))
}

func runTelegramLoop(ctx context.Context, d Dependencies, logger *slog.Logger, opts runtimeLoopOptions) error {
	hb := d.Heartbeat
	if hb == nil {
		hb = heartbeatutil.New(heartbeatutil.DefaultFailureThreshold)
	}
	if listen := healthcheck.NormalizeListen(opts.HealthListen); listen != "" {
		healthServer, err := healthcheck.StartServer(ctx, logger, listen, "telegram", hb)
		if err != nil {
			logger.Warn("telegram_health_server_start_error", "addr", listen, "error", err.Error())
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = healthServer.Shutdown(shutdownCtx)
				cancel()
			}()
		}
	}

	var me *telegramapi.User
	for {
		var err error
		me, err = d.API.GetMe(ctx)
		if err == nil {
			break
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		}
		logger.Warn("telegram_get_me_error", "error", err.Error())
		if !sleepWithContext(ctx, opts.GetMeBackoff) {
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		}
	}
	logger.Info("telegram_start", "bot_id", me.ID, "bot_username", me.Username, "poll_timeout", opts.PollTimeout.String())
	if d.OnReady != nil {
		d.OnReady(me)
	}

	var offset int64
	for {
		updates, nextOffset, err := d.API.GetUpdates(ctx, offset, opts.PollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
			if telegramapi.IsPollTimeoutError(err) {
				logger.Debug("telegram_get_updates_timeout", "error", err.Error())
			} else {
				logger.Warn("telegram_get_updates_error", "error", err.Error())
			}
			if alert, msg := hb.EndFailure(err); alert {
				logger.Error("telegram_poll_unhealthy", "detail", msg)
			}
			if !sleepWithContext(ctx, opts.ErrorBackoff) {
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
			continue
		}
		offset = nextOffset
		if hb.EndSuccess(time.Now()) {
			logger.Info("telegram_poll_recovered")
		}

		for _, u := range updates {
			if ctx.Err() != nil {
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
			dispatchUpdate(ctx, d.Handler, logger, me.ID, u)
		}
	}
}

// dispatchUpdate hands one update to the handler. A panicking handler is
// logged and the loop moves on to the next update.
func dispatchUpdate(ctx context.Context, h Handler, logger *slog.Logger, botID int64, u telegramapi.Update) {
	correlationID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("telegram_update_panic", "update_id", u.UpdateID, "correlation_id", correlationID, "panic", fmt.Sprint(r))
		}
	}()

	switch {
	case u.CallbackQuery != nil:
		cb, ok := inboundCallback(u.CallbackQuery)
		if !ok {
			return
		}
		logger.Debug("telegram_callback_received",
			"update_id", u.UpdateID,
			"correlation_id", correlationID,
			"user_id", cb.From.ID,
			"data", cb.Data,
		)
		h.HandleCallback(ctx, cb)
	case u.Message != nil:
		msg, ok := inboundMessage(u.Message)
		if !ok || msg.From.ID == botID {
			return
		}
		logger.Debug("telegram_message_received",
			"update_id", u.UpdateID,
			"correlation_id", correlationID,
			"chat_id", msg.ChatID,
			"thread_id", msg.ThreadID,
			"user_id", msg.From.ID,
		)
		h.HandleMessage(ctx, msg)
	}
}

func inboundMessage(m *telegramapi.Message) (guardbot.InboundMessage, bool) {
	if m == nil || m.Chat == nil || m.From == nil {
		return guardbot.InboundMessage{}, false
	}
	return guardbot.InboundMessage{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		ThreadID:  m.MessageThreadID,
		From:      participant(m.From),
		Text:      strings.TrimSpace(m.Text),
	}, true
}

func inboundCallback(q *telegramapi.CallbackQuery) (guardbot.InboundCallback, bool) {
	if q == nil || q.From == nil || strings.TrimSpace(q.ID) == "" {
		return guardbot.InboundCallback{}, false
	}
	return guardbot.InboundCallback{
		ID:   q.ID,
		From: participant(q.From),
		Data: q.Data,
	}, true
}

func participant(u *telegramapi.User) guardbot.Participant {
	return guardbot.Participant{
		ID:          u.ID,
		DisplayName: telegramutil.DisplayName(u.FirstName, u.LastName, u.Username),
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
