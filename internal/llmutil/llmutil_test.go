package llmutil

import (
	"context"
	"testing"

	"github.com/quailyquaily/topicguard/providers/gemini"
	"github.com/quailyquaily/topicguard/providers/openai"
	"github.com/spf13/viper"
)

func TestClientFromConfigTogetherUsesOpenAICompatibleClient(t *testing.T) {
	c, err := ClientFromConfig(context.Background(), ClientConfig{Provider: "", APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("ClientFromConfig() error = %v", err)
	}
	oc, ok := c.(*openai.Client)
	if !ok {
		t.Fatalf("ClientFromConfig() = %T, want *openai.Client", c)
	}
	if oc.BaseURL != openai.DefaultBaseURL {
		t.Fatalf("base url = %q, want %q", oc.BaseURL, openai.DefaultBaseURL)
	}
}

func TestClientFromConfigUnknownProvider(t *testing.T) {
	if _, err := ClientFromConfig(context.Background(), ClientConfig{Provider: "nope"}); err == nil {
		t.Fatalf("ClientFromConfig() error = nil, want unknown provider")
	}
}

func TestConfigFromViperPicksProviderDefaultModel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cases := map[string]string{
		"":          DefaultTogetherModel,
		"together":  DefaultTogetherModel,
		"gemini":    gemini.DefaultModel,
		"anthropic": "claude-3-5-haiku-latest",
		"bedrock":   "",
	}
	for provider, want := range cases {
		viper.Set("llm.provider", provider)
		viper.Set("llm.model", "")
		if got := ConfigFromViper().Model; got != want {
			t.Fatalf("provider %q model = %q, want %q", provider, got, want)
		}
	}

	viper.Set("llm.provider", "gemini")
	viper.Set("llm.model", "gemini-2.5-pro")
	if got := ConfigFromViper().Model; got != "gemini-2.5-pro" {
		t.Fatalf("explicit model = %q, want gemini-2.5-pro", got)
	}
}

func TestHasCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if HasCredentials(ClientConfig{Provider: "gemini"}) {
		t.Fatalf("gemini without key reported credentials")
	}
	if !HasCredentials(ClientConfig{Provider: "gemini", APIKey: "k"}) {
		t.Fatalf("gemini with key reported no credentials")
	}
	if HasCredentials(ClientConfig{Provider: "bedrock", APIKey: "ignored"}) {
		t.Fatalf("bedrock without aws keys reported credentials")
	}
	viper.Set("llm.bedrock.aws_key", "AKIA")
	viper.Set("llm.bedrock.aws_secret", "s")
	if !HasCredentials(ClientConfig{Provider: "bedrock"}) {
		t.Fatalf("bedrock with aws keys reported no credentials")
	}
}
