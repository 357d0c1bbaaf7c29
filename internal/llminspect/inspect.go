// Package llminspect records /chat model traffic to a markdown file for
// offline prompt review.
package llminspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quailyquaily/topicguard/llm"
)

type Options struct {
	Dir             string
	Model           string
	TimestampFormat string
	Now             func() time.Time
}

// Inspector appends one section per request to a single dump file.
type Inspector struct {
	mu    sync.Mutex
	file  *os.File
	now   func() time.Time
	count int
}

func New(opts Options) (*Inspector, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("llminspect: dump dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump dir: %w", err)
	}
	startedAt := now()
	path := filepath.Join(dir, buildFilename(startedAt, opts.TimestampFormat))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open prompt dump file: %w", err)
	}
	in := &Inspector{file: file, now: now}
	header := fmt.Sprintf(
		"---\nmodel: %s\ndatetime: %s\n---\n\n",
		strconv.Quote(strings.TrimSpace(opts.Model)),
		strconv.Quote(startedAt.Format(time.RFC3339)),
	)
	if err := in.write(header); err != nil {
		_ = file.Close()
		return nil, err
	}
	return in, nil
}

func (in *Inspector) Path() string {
	if in == nil || in.file == nil {
		return ""
	}
	return in.file.Name()
}

func (in *Inspector) Close() error {
	if in == nil || in.file == nil {
		return nil
	}
	return in.file.Close()
}

// DumpRequest writes the prompt and returns its sequence number, which
// DumpResult uses to pair the answer with it.
func (in *Inspector) DumpRequest(req llm.Request) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.count++
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Request #%d\n\n", in.count)
	fmt.Fprintf(&b, "model: %s, temperature: %g, max_tokens: %d\n\n", req.Model, req.Temperature, req.MaxTokens)
	for i, msg := range req.Messages {
		fmt.Fprintf(&b, "### Message #%d-%d\n\n", in.count, i+1)
		b.WriteString("```\n")
		fmt.Fprintf(&b, "role: %s\n\n", msg.Role)
		fmt.Fprintf(&b, "content: %s\n", msg.Content)
		b.WriteString("```\n\n")
	}
	return in.count, in.write(b.String())
}

func (in *Inspector) DumpResult(seq int, res llm.Result, callErr error) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "### Result #%d\n\n", seq)
	b.WriteString("```\n")
	if callErr != nil {
		fmt.Fprintf(&b, "error: %s\n", callErr.Error())
	} else {
		fmt.Fprintf(&b, "duration: %s\n", res.Duration)
		fmt.Fprintf(&b, "tokens: in=%d out=%d total=%d\n\n", res.Usage.InputTokens, res.Usage.OutputTokens, res.Usage.TotalTokens)
		fmt.Fprintf(&b, "text: %s\n", res.Text)
	}
	b.WriteString("```\n\n")
	return in.write(b.String())
}

func (in *Inspector) write(s string) error {
	if _, err := in.file.WriteString(s); err != nil {
		return err
	}
	return in.file.Sync()
}

// Client dumps every request and its outcome before handing the result back.
// Dump failures never fail the call.
type Client struct {
	Base      llm.Client
	Inspector *Inspector
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	if c == nil || c.Base == nil {
		return llm.Result{}, fmt.Errorf("inspect client is not initialized")
	}
	if c.Inspector == nil {
		return c.Base.Chat(ctx, req)
	}
	seq, _ := c.Inspector.DumpRequest(req)
	res, err := c.Base.Chat(ctx, req)
	_ = c.Inspector.DumpResult(seq, res, err)
	return res, err
}

func buildFilename(t time.Time, tsFormat string) string {
	if tsFormat == "" {
		tsFormat = "20060102_150405"
	}
	return fmt.Sprintf("chat_prompt_%s.md", t.Format(tsFormat))
}
