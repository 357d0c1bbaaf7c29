package guardbot

import (
	"context"
	"errors"
)

// enforceRestriction deletes a non-operator message posted in the
// restricted topic. It reports whether processing of msg must stop.
func (r *Router) enforceRestriction(ctx context.Context, msg InboundMessage) bool {
	if r.cfg.RestrictedTopicID == 0 || msg.ThreadID != r.cfg.RestrictedTopicID {
		return false
	}
	if r.cfg.RestrictedChatID != 0 && msg.ChatID != r.cfg.RestrictedChatID {
		return false
	}
	if msg.From.ID == r.cfg.OperatorID {
		return false
	}
	if err := r.gateway.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		if errors.Is(err, ErrMessageGone) {
			r.logger.Debug("restricted_topic_message_gone", "chat_id", msg.ChatID, "message_id", msg.MessageID)
			return true
		}
		r.logger.Warn("restricted_topic_delete_error",
			"chat_id", msg.ChatID,
			"message_id", msg.MessageID,
			"user_id", msg.From.ID,
			"error", err.Error(),
		)
		return true
	}
	r.logger.Info("restricted_topic_message_deleted",
		"chat_id", msg.ChatID,
		"message_id", msg.MessageID,
		"user_id", msg.From.ID,
	)
	return true
}
