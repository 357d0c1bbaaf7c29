// Package telegramapi is a small Bot API client covering the calls the
// moderation bot makes: long polling, sending/editing/deleting messages and
// acknowledging inline-button presses.
package telegramapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/internal/outputfmt"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.telegram.org"

// Telegram allows roughly 30 messages per second per bot across all chats.
const (
	defaultRatePerSecond  = 25
	defaultRateBurst      = 5
	defaultRequestTimeout = 30 * time.Second
	defaultPollTimeout    = 30 * time.Second
)

type Options struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	RequestTimeout time.Duration
	// RatePerSecond caps outbound calls (everything except getUpdates).
	// Zero uses the default; a negative value disables throttling.
	RatePerSecond float64
	RateBurst     int
}

type Client struct {
	http           *http.Client
	baseURL        string
	token          string
	requestTimeout time.Duration
	limiter        *rate.Limiter
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond >= 0 {
		perSecond := opts.RatePerSecond
		if perSecond == 0 {
			perSecond = defaultRatePerSecond
		}
		burst := opts.RateBurst
		if burst <= 0 {
			burst = defaultRateBurst
		}
		limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return &Client{
		http:           httpClient,
		baseURL:        strings.TrimRight(baseURL, "/"),
		token:          strings.TrimSpace(opts.Token),
		requestTimeout: requestTimeout,
		limiter:        limiter,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var out User
	if err := c.call(ctx, "getMe", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUpdates long-polls for message and callback_query updates and returns
// the offset to use for the next call.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	var updates []Update
	body := getUpdatesRequest{
		Offset:         offset,
		Timeout:        secs,
		AllowedUpdates: []string{"message", "callback_query"},
	}
	if err := c.do(reqCtx, "getUpdates", body, &updates); err != nil {
		return nil, offset, err
	}

	next := offset
	for _, u := range updates {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return updates, next, nil
}

func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("telegram sendMessage: empty text")
	}
	var out Message
	if err := c.call(ctx, "sendMessage", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditMessageText(ctx context.Context, req EditMessageTextRequest) error {
	if req.MessageID == 0 {
		return fmt.Errorf("telegram editMessageText: missing message_id")
	}
	return c.call(ctx, "editMessageText", req, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	if messageID == 0 {
		return fmt.Errorf("telegram deleteMessage: missing message_id")
	}
	return c.call(ctx, "deleteMessage", deleteMessageRequest{ChatID: chatID, MessageID: messageID}, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	if strings.TrimSpace(callbackQueryID) == "" {
		return fmt.Errorf("telegram answerCallbackQuery: missing callback_query_id")
	}
	return c.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{
		CallbackQueryID: callbackQueryID,
		Text:            strings.TrimSpace(text),
	}, nil)
}

// call is do with the outbound rate limit and the per-request timeout.
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("telegram %s: rate wait: %w", method, err)
		}
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	return c.do(reqCtx, method, body, out)
}

func (c *Client) do(ctx context.Context, method string, body any, out any) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	} else {
		b, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("telegram %s: encode: %w", method, marshalErr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, which carries the token.
		return outputfmt.SanitizeError(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var envelope apiResponse
	_ = json.Unmarshal(raw, &envelope)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.OK {
		return &RequestError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   envelope.ErrorCode,
			Description: envelope.Description,
			Body:        strings.TrimSpace(string(raw)),
		}
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// IsPollTimeoutError reports long-poll requests that simply ran out of time.
func IsPollTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "client.timeout exceeded")
}
