package guardbot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCallback = errors.New("guardbot: invalid callback payload")

type CallbackKind int

const (
	CallbackStartVerification CallbackKind = iota + 1
	CallbackApprove
	CallbackReject
)

func (k CallbackKind) String() string {
	switch k {
	case CallbackStartVerification:
		return "start_verification"
	case CallbackApprove:
		return "approve"
	case CallbackReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Callback is a decoded inline-button payload. UserID is set only for
// approve/reject and names the participant being decided on.
type Callback struct {
	Kind   CallbackKind
	UserID int64
}

// ParseCallback decodes "start_verification", "approve_<id>" or
// "reject_<id>". Anything else is rejected with ErrInvalidCallback.
func ParseCallback(data string) (Callback, error) {
	data = strings.TrimSpace(data)
	if data == CallbackStartVerification.String() {
		return Callback{Kind: CallbackStartVerification}, nil
	}
	action, rawID, ok := strings.Cut(data, "_")
	if !ok {
		return Callback{}, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	var kind CallbackKind
	switch action {
	case "approve":
		kind = CallbackApprove
	case "reject":
		kind = CallbackReject
	default:
		return Callback{}, fmt.Errorf("%w: unknown action %q", ErrInvalidCallback, action)
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID == 0 {
		return Callback{}, fmt.Errorf("%w: bad participant id %q", ErrInvalidCallback, rawID)
	}
	return Callback{Kind: kind, UserID: userID}, nil
}

// Data is the wire form accepted by ParseCallback.
func (c Callback) Data() string {
	if c.Kind == CallbackStartVerification {
		return c.Kind.String()
	}
	return c.Kind.String() + "_" + strconv.FormatInt(c.UserID, 10)
}
