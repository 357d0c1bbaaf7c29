// Package uniai routes chat requests through the uniai multi-provider client
// for backends without a dedicated adapter (anthropic, azure, bedrock, ...).
package uniai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/llm"
	uniaiapi "github.com/quailyquaily/uniai"
)

type Config struct {
	Provider string
	Endpoint string
	APIKey   string
	Model    string

	RequestTimeout time.Duration

	AzureDeployment    string
	AwsKey             string
	AwsSecret          string
	AwsRegion          string
	AwsBedrockModelArn string
}

type Client struct {
	provider       string
	model          string
	requestTimeout time.Duration
	client         *uniaiapi.Client
}

func New(cfg Config) *Client {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	apiKey := strings.TrimSpace(cfg.APIKey)
	model := strings.TrimSpace(cfg.Model)

	uCfg := uniaiapi.Config{
		Provider:            provider,
		OpenAIAPIKey:        apiKey,
		OpenAIAPIBase:       normalizeOpenAIBase(cfg.Endpoint),
		OpenAIModel:         model,
		AzureOpenAIAPIKey:   apiKey,
		AzureOpenAIEndpoint: strings.TrimSpace(cfg.Endpoint),
		AzureOpenAIModel:    firstNonEmpty(cfg.AzureDeployment, model),
		AnthropicAPIKey:     apiKey,
		AnthropicModel:      model,
		AwsKey:              strings.TrimSpace(cfg.AwsKey),
		AwsSecret:           strings.TrimSpace(cfg.AwsSecret),
		AwsRegion:           strings.TrimSpace(cfg.AwsRegion),
		AwsBedrockModelArn:  strings.TrimSpace(cfg.AwsBedrockModelArn),
	}

	return &Client{
		provider:       provider,
		model:          model,
		requestTimeout: cfg.RequestTimeout,
		client:         uniaiapi.New(uCfg),
	}
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	resp, err := c.client.Chat(ctx, buildChatOptions(req, c.provider, c.model)...)
	if err != nil {
		return llm.Result{}, err
	}
	if resp == nil {
		return llm.Result{}, fmt.Errorf("uniai: empty response")
	}
	return llm.Result{
		Text: resp.Text,
		Usage: llm.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}, nil
}

func buildChatOptions(req llm.Request, provider, defaultModel string) []uniaiapi.ChatOption {
	msgs := make([]uniaiapi.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = uniaiapi.Message{Role: m.Role, Content: m.Content}
	}

	opts := []uniaiapi.ChatOption{uniaiapi.WithReplaceMessages(msgs...)}
	if provider != "" {
		opts = append(opts, uniaiapi.WithProvider(provider))
	}
	if model := firstNonEmpty(req.Model, defaultModel); model != "" {
		opts = append(opts, uniaiapi.WithModel(model))
	}
	opts = append(opts, uniaiapi.WithTemperature(req.Temperature))
	if req.MaxTokens > 0 {
		opts = append(opts, uniaiapi.WithMaxTokens(req.MaxTokens))
	}
	return opts
}

func normalizeOpenAIBase(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(endpoint, "/v1") || strings.Contains(endpoint, "/v1/") {
		return endpoint
	}
	return endpoint + "/v1"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
