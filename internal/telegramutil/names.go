package telegramutil

import "strings"

// DisplayName picks the friendliest label Telegram gives us for a user.
func DisplayName(firstName, lastName, username string) string {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	username = strings.TrimSpace(username)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case username != "":
		return "@" + username
	default:
		return ""
	}
}

// SplitCommand splits "/cmd@Bot rest of text" into a normalized command
// ("/cmd") and its argument. Non-command text yields an empty command.
func SplitCommand(text string) (cmd string, rest string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head := text
	if i := strings.IndexAny(text, " \n\t"); i >= 0 {
		head = text[:i]
		rest = strings.TrimSpace(text[i:])
	}
	// "/cmd@BotName" is what Telegram sends from group command menus.
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	return strings.ToLower(head), rest
}
