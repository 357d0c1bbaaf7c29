// Package gemini adapts the Google GenAI SDK to llm.Client.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/llm"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey         string
	Model          string
	Endpoint       string
	RequestTimeout time.Duration
}

type Client struct {
	client         *genai.Client
	model          string
	requestTimeout time.Duration
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	c, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: c, model: model, requestTimeout: cfg.RequestTimeout}, nil
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	system, contents := splitMessages(req.Messages)
	if len(contents) == 0 {
		return llm.Result{}, fmt.Errorf("gemini: no user content")
	}

	genCfg := &genai.GenerateContentConfig{SystemInstruction: system}
	if req.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return llm.Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return llm.Result{}, fmt.Errorf("gemini: empty response")
	}

	out := llm.Result{
		Text:     resp.Text(),
		Duration: time.Since(start),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = llm.Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// splitMessages lifts system messages into a single system instruction and
// maps the rest onto user/model turns.
func splitMessages(messages []llm.Message) (*genai.Content, []*genai.Content) {
	var systemParts []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch m.Role {
		case llm.RoleSystem:
			systemParts = append(systemParts, genai.NewPartFromText(text))
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}
	if len(systemParts) == 0 {
		return nil, contents
	}
	return &genai.Content{Parts: systemParts}, contents
}
