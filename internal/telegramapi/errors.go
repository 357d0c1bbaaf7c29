package telegramapi

import (
	"errors"
	"fmt"
	"strings"
)

// RequestError is returned for non-2xx responses and for "ok": false bodies.
type RequestError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
	Body        string
}

func (e *RequestError) Error() string {
	if e == nil {
		return "telegram request failed"
	}
	prefix := "telegram"
	if e.Method != "" {
		prefix = "telegram " + e.Method
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = strings.TrimSpace(e.Body)
	}
	if e.StatusCode > 0 {
		if desc != "" {
			return fmt.Sprintf("%s: http %d: %s", prefix, e.StatusCode, desc)
		}
		return fmt.Sprintf("%s: http %d", prefix, e.StatusCode)
	}
	if desc != "" {
		return prefix + ": " + desc
	}
	return prefix + " failed"
}

// IsMessageNotModified reports an edit whose text and markup already match
// the stored message. Telegram treats it as a 400, callers usually don't.
func IsMessageNotModified(err error) bool {
	return descriptionContains(err, "message is not modified")
}

// IsMessageGone reports edits and deletes against a message that no longer
// exists or can no longer be changed.
func IsMessageGone(err error) bool {
	return descriptionContains(err, "message to edit not found") ||
		descriptionContains(err, "message to delete not found") ||
		descriptionContains(err, "message can't be edited") ||
		descriptionContains(err, "message can't be deleted")
}

func descriptionContains(err error, needle string) bool {
	if err == nil {
		return false
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return strings.Contains(strings.ToLower(reqErr.Description), needle)
	}
	return strings.Contains(strings.ToLower(err.Error()), needle)
}
