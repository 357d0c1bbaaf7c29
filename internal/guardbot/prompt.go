package guardbot

import (
	"context"
	"errors"
)

func promptMessage(chatID, threadID int64) OutboundMessage {
	return OutboundMessage{
		ChatID:   chatID,
		ThreadID: threadID,
		Text:     textPrompt,
		Buttons: [][]Button{{
			{Text: textApplyButton, Data: Callback{Kind: CallbackStartVerification}.Data()},
		}},
	}
}

// publishPrompt edits the tracked prompt in the public channel, or posts a
// fresh one when there is none or the edit fails.
func (r *Router) publishPrompt(ctx context.Context, from Participant) {
	if from.ID != r.cfg.OperatorID {
		_ = r.sendText(ctx, from.ID, textOperatorOnlyCmd)
		return
	}
	msg := promptMessage(r.cfg.PublicChannelID, r.cfg.PromptTopicID)

	if messageID, ok := r.store.LastPromptID(); ok {
		err := r.gateway.EditMessage(ctx, messageID, msg)
		if err == nil {
			r.logger.Info("verification_prompt_updated", "chat_id", msg.ChatID, "message_id", messageID)
			_ = r.sendText(ctx, from.ID, textPromptUpdated)
			return
		}
		if errors.Is(err, ErrMessageGone) {
			r.logger.Info("verification_prompt_gone", "chat_id", msg.ChatID, "message_id", messageID)
		} else {
			r.logger.Warn("verification_prompt_edit_error", "chat_id", msg.ChatID, "message_id", messageID, "error", err.Error())
		}
	}

	messageID, err := r.send(ctx, msg)
	if err != nil {
		_ = r.sendText(ctx, from.ID, textPromptSendFailed)
		return
	}
	if err := r.store.SetLastPromptID(ctx, messageID); err != nil {
		r.logger.Error("last_prompt_flush_error", "message_id", messageID, "error", err.Error())
	}
	r.logger.Info("verification_prompt_sent", "chat_id", msg.ChatID, "message_id", messageID)
	_ = r.sendText(ctx, from.ID, textPromptSent)
}
