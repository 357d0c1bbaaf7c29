package guardbot

import (
	"context"
	"strings"

	"github.com/quailyquaily/topicguard/internal/telegramutil"
)

// apply opens a verification session and sends the question. The returned
// string is an optional callback notice.
func (r *Router) apply(ctx context.Context, from Participant) string {
	if r.store.IsVerified(from.ID) {
		_ = r.sendText(ctx, from.ID, textAlreadyVerified)
		return ""
	}
	if _, pending := r.registry.PendingApproval(from.ID); pending {
		_ = r.sendText(ctx, from.ID, textAlreadyPending)
		return ""
	}

	session := r.registry.OpenSession(from.ID, verificationQuestion)
	_, err := r.send(ctx, OutboundMessage{
		ChatID:    from.ID,
		Text:      questionMessage(session.Question),
		ParseMode: telegramutil.ParseModeMarkdownV2,
	})
	if err != nil {
		// The participant has no private chat with the bot yet.
		r.registry.DropSession(from.ID)
		return textOpenPrivateChat
	}
	r.logger.Info("verification_session_opened", "user_id", from.ID)
	return ""
}

// captureAnswer turns free text from a participant with an open session
// into a pending approval and notifies the operator.
func (r *Router) captureAnswer(ctx context.Context, from Participant, answer string) {
	pending, ok := r.registry.SubmitAnswer(from.ID, from.DisplayName, answer)
	if !ok {
		return
	}
	r.logger.Info("verification_answer_received", "user_id", from.ID, "approval_id", pending.ID)

	_, err := r.send(ctx, OutboundMessage{
		ChatID:    r.cfg.OperatorID,
		Text:      operatorRequestMessage(pending),
		ParseMode: telegramutil.ParseModeMarkdownV2,
		Buttons: [][]Button{{
			{Text: textApproveButton, Data: Callback{Kind: CallbackApprove, UserID: from.ID}.Data()},
			{Text: textRejectButton, Data: Callback{Kind: CallbackReject, UserID: from.ID}.Data()},
		}},
	})
	if err != nil {
		// A pending approval exists only while the operator holds its buttons.
		r.registry.TakeApproval(from.ID)
		r.logger.Warn("verification_operator_unreachable", "user_id", from.ID, "approval_id", pending.ID)
		_ = r.sendText(ctx, from.ID, textForwardFailed)
		return
	}
	_ = r.sendText(ctx, from.ID, textAnswerForwarded)
}

// decide applies the operator's approve/reject on a pending approval.
func (r *Router) decide(ctx context.Context, from Participant, cb Callback) string {
	if from.ID != r.cfg.OperatorID {
		r.logger.Warn("verification_decision_denied", "user_id", from.ID, "target_user_id", cb.UserID)
		return textOperatorOnlyBtn
	}
	pending, ok := r.registry.TakeApproval(cb.UserID)
	if !ok {
		r.logger.Debug("verification_decision_stale", "target_user_id", cb.UserID, "action", cb.Kind.String())
		return ""
	}

	switch cb.Kind {
	case CallbackApprove:
		if err := r.store.MarkVerified(ctx, pending.UserID); err != nil {
			r.logger.Error("verified_users_flush_error", "user_id", pending.UserID, "error", err.Error())
		}
		_ = r.sendText(ctx, pending.UserID, textApproved)
		r.logger.Info("verification_approved", "user_id", pending.UserID, "approval_id", pending.ID)
		return textDecisionApproved
	default:
		_ = r.sendText(ctx, pending.UserID, textRejected)
		r.logger.Info("verification_rejected", "user_id", pending.UserID, "approval_id", pending.ID)
		return textDecisionRejected
	}
}

func questionMessage(question string) string {
	var b strings.Builder
	b.WriteString(telegramutil.Bold(questionLabel))
	b.WriteString("\n")
	b.WriteString(telegramutil.EscapeMarkdownV2(question))
	b.WriteString("\n\n")
	b.WriteString(telegramutil.Bold(sendAnswerNow))
	return b.String()
}

func operatorRequestMessage(p PendingApproval) string {
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = "unknown"
	}
	var b strings.Builder
	b.WriteString(telegramutil.Bold(operatorRequestTitle))
	b.WriteString("\n")
	b.WriteString(telegramutil.EscapeMarkdownV2(operatorUserLabel + " " + name))
	b.WriteString("\n\n")
	b.WriteString(telegramutil.Bold(questionLabel))
	b.WriteString("\n")
	b.WriteString(telegramutil.EscapeMarkdownV2(p.Question))
	b.WriteString("\n\n")
	b.WriteString(telegramutil.Bold(answerLabel))
	b.WriteString("\n")
	b.WriteString(telegramutil.EscapeMarkdownV2(truncateRunes(p.Answer, maxQuotedAnswerRunes)))
	return b.String()
}

// maxQuotedAnswerRunes keeps the operator request under Telegram's
// 4096-character message limit once the header and question are added.
const maxQuotedAnswerRunes = 3500

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
