package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setValid(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("telegram.bot_token", " 123:abc ")
	viper.Set("operator_id", "1000")
	viper.Set("public_channel_id", "-100500")
	viper.Set("restricted_topic_id", 77)
	viper.Set("telegram.poll_timeout", "45s")
	viper.Set("llm.api_key", "k")
	viper.Set("llm.model", "m")
}

func TestFromViper(t *testing.T) {
	setValid(t)

	cfg, err := FromViper()
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	if cfg.Telegram.BotToken != "123:abc" {
		t.Fatalf("bot token = %q", cfg.Telegram.BotToken)
	}
	if cfg.OperatorID != 1000 || cfg.PublicChannelID != -100500 || cfg.RestrictedTopicID != 77 {
		t.Fatalf("ids = %d/%d/%d", cfg.OperatorID, cfg.PublicChannelID, cfg.RestrictedTopicID)
	}
	if cfg.Telegram.PollTimeout != 45*time.Second {
		t.Fatalf("poll timeout = %v, want 45s", cfg.Telegram.PollTimeout)
	}
	if cfg.LLM.Provider != "together" || cfg.LLM.APIKey != "k" || cfg.LLM.Model != "m" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
}

func TestFromViperReportsMissingKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("operator_id", "not-a-number")

	_, err := FromViper()
	if err == nil {
		t.Fatalf("FromViper() error = nil")
	}
	for _, key := range []string{"telegram.bot_token", "operator_id", "public_channel_id"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("FromViper() error = %q, want mention of %s", err, key)
		}
	}
}

func TestValidateRanges(t *testing.T) {
	setValid(t)
	viper.Set("llm.temperature", 3.5)
	viper.Set("telegram.base_url", "not a url")

	_, err := FromViper()
	if err == nil {
		t.Fatalf("FromViper() error = nil")
	}
	if !strings.Contains(err.Error(), "llm.temperature failed 'lte'") {
		t.Fatalf("error = %q, want temperature range failure", err)
	}
	if !strings.Contains(err.Error(), "telegram.base_url failed 'url'") {
		t.Fatalf("error = %q, want base url failure", err)
	}
}
