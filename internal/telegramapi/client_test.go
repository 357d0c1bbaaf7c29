package telegramapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{
		HTTPClient:    srv.Client(),
		BaseURL:       srv.URL,
		Token:         "TOKEN",
		RatePerSecond: -1,
	})
}

func TestSendMessageEncodesKeyboard(t *testing.T) {
	var got SendMessageRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"chat":{"id":-100}}}`))
	})

	msg, err := c.SendMessage(context.Background(), SendMessageRequest{
		ChatID: -100,
		Text:   "apply?",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "go", CallbackData: "start_verification"}},
		}},
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if msg.MessageID != 77 {
		t.Fatalf("SendMessage() message_id = %d, want 77", msg.MessageID)
	}
	if got.ReplyMarkup == nil || got.ReplyMarkup.InlineKeyboard[0][0].CallbackData != "start_verification" {
		t.Fatalf("reply_markup = %#v", got.ReplyMarkup)
	}
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	if _, err := c.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: " "}); err == nil {
		t.Fatalf("SendMessage() error = nil, want empty text error")
	}
}

func TestEditMessageNotModifiedIsClassified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is not modified: specified new message content and reply markup are exactly the same"}`))
	})
	err := c.EditMessageText(context.Background(), EditMessageTextRequest{ChatID: 1, MessageID: 2, Text: "x"})
	if err == nil {
		t.Fatalf("EditMessageText() error = nil")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.ErrorCode != 400 || reqErr.Method != "editMessageText" {
		t.Fatalf("EditMessageText() error = %#v, want RequestError 400", err)
	}
	if !IsMessageNotModified(err) {
		t.Fatalf("IsMessageNotModified() = false, want true")
	}
	if IsMessageGone(err) {
		t.Fatalf("IsMessageGone() = true, want false")
	}
}

func TestDeleteMessageGone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message to delete not found"}`))
	})
	err := c.DeleteMessage(context.Background(), 1, 2)
	if !IsMessageGone(err) {
		t.Fatalf("DeleteMessage() error = %v, want message gone", err)
	}
}

func TestOKFalseWithStatus200IsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"weird"}`))
	})
	err := c.AnswerCallbackQuery(context.Background(), "cb-1", "")
	if err == nil || !strings.Contains(err.Error(), "weird") {
		t.Fatalf("AnswerCallbackQuery() error = %v, want weird", err)
	}
}

func TestGetUpdatesAdvancesOffset(t *testing.T) {
	var got getUpdatesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{"ok":true,"result":[
			{"update_id":10,"message":{"message_id":1,"chat":{"id":5},"from":{"id":9},"text":"hi"}},
			{"update_id":12,"callback_query":{"id":"cb","from":{"id":9},"data":"start_verification"}}
		]}`))
	})

	updates, next, err := c.GetUpdates(context.Background(), 10, 2*time.Second)
	if err != nil {
		t.Fatalf("GetUpdates() error = %v", err)
	}
	if len(updates) != 2 || next != 13 {
		t.Fatalf("GetUpdates() = %d updates, next %d; want 2, 13", len(updates), next)
	}
	if updates[1].CallbackQuery == nil || updates[1].CallbackQuery.Data != "start_verification" {
		t.Fatalf("callback update = %#v", updates[1])
	}
	if got.Offset != 10 || got.Timeout != 2 || len(got.AllowedUpdates) != 2 {
		t.Fatalf("getUpdates request = %#v", got)
	}
}

func TestGetMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"guard_bot"}}`))
	})
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error = %v", err)
	}
	if me.Username != "guard_bot" {
		t.Fatalf("GetMe() username = %q", me.Username)
	}
}

func TestIsPollTimeoutError(t *testing.T) {
	if !IsPollTimeoutError(context.DeadlineExceeded) {
		t.Fatalf("deadline exceeded should be a poll timeout")
	}
	if IsPollTimeoutError(errors.New("boom")) {
		t.Fatalf("generic error should not be a poll timeout")
	}
	if IsPollTimeoutError(nil) {
		t.Fatalf("nil should not be a poll timeout")
	}
}

func TestTransportErrorMasksToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{
		HTTPClient:    &http.Client{Timeout: 2 * time.Second},
		BaseURL:       base,
		Token:         "123456:SECRET-token",
		RatePerSecond: -1,
	})
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatalf("GetMe() expected transport error")
	}
	if strings.Contains(err.Error(), "SECRET-token") {
		t.Fatalf("error leaks token: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "/bot[redacted]/getMe") {
		t.Fatalf("error = %q, want masked method path", err.Error())
	}
}
