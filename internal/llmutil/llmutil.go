package llmutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/llm"
	"github.com/quailyquaily/topicguard/providers/gemini"
	"github.com/quailyquaily/topicguard/providers/openai"
	uniaiProvider "github.com/quailyquaily/topicguard/providers/uniai"
	"github.com/spf13/viper"
)

type ClientConfig struct {
	Provider       string
	Endpoint       string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// DefaultTogetherModel is the chat model used when llm.provider is together
// and llm.model is unset.
const DefaultTogetherModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"

// defaultModels maps a provider to the model used when llm.model is empty.
// Providers missing here (azure, bedrock, openai_custom) address models by
// deployment name or ARN and need llm.model set explicitly.
var defaultModels = map[string]string{
	"together":   DefaultTogetherModel,
	"openai":     "gpt-4o-mini",
	"openrouter": "meta-llama/llama-3.3-70b-instruct",
	"gemini":     gemini.DefaultModel,
	"anthropic":  "claude-3-5-haiku-latest",
	"deepseek":   "deepseek-chat",
	"xai":        "grok-3-mini",
}

// DefaultModel returns the fallback model for provider, or "" if none.
func DefaultModel(provider string) string {
	return defaultModels[normalizeProvider(provider)]
}

func ConfigFromViper() ClientConfig {
	provider := ProviderFromViper()
	model := strings.TrimSpace(viper.GetString("llm.model"))
	if model == "" {
		model = DefaultModel(provider)
	}
	return ClientConfig{
		Provider:       provider,
		Endpoint:       strings.TrimSpace(viper.GetString("llm.endpoint")),
		APIKey:         strings.TrimSpace(viper.GetString("llm.api_key")),
		Model:          model,
		RequestTimeout: viper.GetDuration("llm.request_timeout"),
	}
}

// HasCredentials reports whether cfg carries what its provider needs to
// authenticate. Bedrock uses AWS keys; every other provider needs an API key.
func HasCredentials(cfg ClientConfig) bool {
	if normalizeProvider(cfg.Provider) == "bedrock" {
		return strings.TrimSpace(viper.GetString("llm.bedrock.aws_key")) != "" &&
			strings.TrimSpace(viper.GetString("llm.bedrock.aws_secret")) != ""
	}
	return strings.TrimSpace(cfg.APIKey) != ""
}

func ProviderFromViper() string {
	return normalizeProvider(viper.GetString("llm.provider"))
}

func ClientFromConfig(ctx context.Context, cfg ClientConfig) (llm.Client, error) {
	provider := normalizeProvider(cfg.Provider)
	switch provider {
	case "together", "openai", "openai_custom", "openrouter":
		return openai.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.RequestTimeout), nil
	case "gemini":
		return gemini.New(ctx, gemini.Config{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			Endpoint:       cfg.Endpoint,
			RequestTimeout: cfg.RequestTimeout,
		})
	case "anthropic", "azure", "bedrock", "deepseek", "xai":
		return uniaiProvider.New(uniaiProvider.Config{
			Provider:           provider,
			Endpoint:           cfg.Endpoint,
			APIKey:             cfg.APIKey,
			Model:              cfg.Model,
			RequestTimeout:     cfg.RequestTimeout,
			AzureDeployment:    viper.GetString("llm.azure.deployment"),
			AwsKey:             viper.GetString("llm.bedrock.aws_key"),
			AwsSecret:          viper.GetString("llm.bedrock.aws_secret"),
			AwsRegion:          viper.GetString("llm.bedrock.region"),
			AwsBedrockModelArn: viper.GetString("llm.bedrock.model_arn"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "together"
	}
	return provider
}
