package state

import "errors"

const (
	KeyBotData       = "bot_data"
	KeyVerifiedUsers = "verified_users"
	KeyLastPrompt    = "last_prompt"
)

// ReferenceUnavailable replaces the verification reference when the bot data
// document cannot be loaded.
const ReferenceUnavailable = "⚠️ بيانات التوثيق غير متاحة."

var ErrUnknownKey = errors.New("state: unknown key")

// BotData is the configuration/reference document. It is read once at
// startup and never written back.
type BotData struct {
	VerificationKeywords  []string `json:"verification_keywords" yaml:"verification_keywords"`
	VerificationReference string   `json:"verification_reference" yaml:"verification_reference"`
}

// VerifiedUsers maps a stringified participant id to true.
type VerifiedUsers map[string]bool

// LastPrompt tracks the public verification prompt message. A nil MessageID
// means no prompt has been posted yet.
type LastPrompt struct {
	MessageID *int64 `json:"messageId"`
}

func defaultBotData() BotData {
	return BotData{
		VerificationKeywords:  []string{},
		VerificationReference: ReferenceUnavailable,
	}
}
