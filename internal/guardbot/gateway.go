package guardbot

import (
	"context"
	"errors"

	"github.com/quailyquaily/topicguard/internal/state"
)

// ErrMessageGone is returned by EditMessage and DeleteMessage when the target
// message no longer exists or can no longer be changed.
var ErrMessageGone = errors.New("guardbot: message gone")

type Button struct {
	Text string
	Data string
}

type OutboundMessage struct {
	ChatID    int64
	ThreadID  int64
	Text      string
	ParseMode string
	Buttons   [][]Button
}

// Gateway is the outbound half of the messaging transport.
type Gateway interface {
	// SendMessage returns the id of the posted message.
	SendMessage(ctx context.Context, msg OutboundMessage) (int64, error)
	// EditMessage replaces text and buttons of an existing message in msg.ChatID.
	EditMessage(ctx context.Context, messageID int64, msg OutboundMessage) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	// AnswerCallback clears the button's loading state; text is an optional toast.
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Store is the durable state the router reads and mutates.
type Store interface {
	BotData() state.BotData
	IsVerified(userID int64) bool
	MarkVerified(ctx context.Context, userID int64) error
	LastPromptID() (int64, bool)
	SetLastPromptID(ctx context.Context, messageID int64) error
}

type Participant struct {
	ID          int64
	DisplayName string
}

type InboundMessage struct {
	ChatID    int64
	MessageID int64
	ThreadID  int64
	From      Participant
	Text      string
}

type InboundCallback struct {
	ID   string
	From Participant
	Data string
}
