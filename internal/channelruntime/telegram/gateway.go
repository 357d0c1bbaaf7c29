package telegram

import (
	"context"
	"fmt"

	"github.com/quailyquaily/topicguard/internal/guardbot"
	"github.com/quailyquaily/topicguard/internal/telegramapi"
)

// Gateway adapts the Bot API client to guardbot.Gateway.
type Gateway struct {
	api *telegramapi.Client
}

func NewGateway(api *telegramapi.Client) *Gateway {
	return &Gateway{api: api}
}

func (g *Gateway) SendMessage(ctx context.Context, msg guardbot.OutboundMessage) (int64, error) {
	sent, err := g.api.SendMessage(ctx, telegramapi.SendMessageRequest{
		ChatID:                msg.ChatID,
		MessageThreadID:       msg.ThreadID,
		Text:                  msg.Text,
		ParseMode:             msg.ParseMode,
		DisableWebPagePreview: true,
		ReplyMarkup:           inlineKeyboard(msg.Buttons),
	})
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessage treats "message is not modified" as success: the prompt
// already shows the wanted text and button.
func (g *Gateway) EditMessage(ctx context.Context, messageID int64, msg guardbot.OutboundMessage) error {
	err := g.api.EditMessageText(ctx, telegramapi.EditMessageTextRequest{
		ChatID:      msg.ChatID,
		MessageID:   messageID,
		Text:        msg.Text,
		ParseMode:   msg.ParseMode,
		ReplyMarkup: inlineKeyboard(msg.Buttons),
	})
	if telegramapi.IsMessageNotModified(err) {
		return nil
	}
	return classifyGone(err)
}

func (g *Gateway) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return classifyGone(g.api.DeleteMessage(ctx, chatID, messageID))
}

func classifyGone(err error) error {
	if telegramapi.IsMessageGone(err) {
		return fmt.Errorf("%w: %w", guardbot.ErrMessageGone, err)
	}
	return err
}

func (g *Gateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return g.api.AnswerCallbackQuery(ctx, callbackID, text)
}

func inlineKeyboard(rows [][]guardbot.Button) *telegramapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := &telegramapi.InlineKeyboardMarkup{InlineKeyboard: make([][]telegramapi.InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]telegramapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, telegramapi.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		out.InlineKeyboard = append(out.InlineKeyboard, buttons)
	}
	return out
}
