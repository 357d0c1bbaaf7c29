// Package config resolves the bot's runtime settings from viper and checks
// them before anything connects to Telegram.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quailyquaily/topicguard/internal/llmutil"
	"github.com/spf13/viper"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if key := f.Tag.Get("key"); key != "" {
			return key
		}
		return f.Name
	})
	return v
}

type Config struct {
	OperatorID        int64 `key:"operator_id" validate:"required"`
	PublicChannelID   int64 `key:"public_channel_id" validate:"required"`
	PromptTopicID     int64 `key:"prompt_topic_id" validate:"gte=0"`
	RestrictedChatID  int64 `key:"restricted_chat_id"`
	RestrictedTopicID int64 `key:"restricted_topic_id" validate:"gte=0"`

	Telegram Telegram `key:"telegram"`
	Chat     Chat     `key:"llm"`
	LLM      llmutil.ClientConfig

	HealthListen string `key:"health.listen"`
}

type Telegram struct {
	BotToken       string        `key:"telegram.bot_token" validate:"required"`
	BaseURL        string        `key:"telegram.base_url" validate:"omitempty,url"`
	PollTimeout    time.Duration `key:"telegram.poll_timeout" validate:"gte=0"`
	RequestTimeout time.Duration `key:"telegram.request_timeout" validate:"gte=0"`
	RatePerSecond  float64       `key:"telegram.rate_per_second"`
}

type Chat struct {
	Temperature float64 `key:"llm.temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `key:"llm.max_tokens" validate:"gte=0"`
	// InspectDir, when set, receives a markdown dump of every /chat exchange.
	InspectDir string `key:"llm.inspect_dir"`
}

// FromViper reads and validates the configuration.
func FromViper() (Config, error) {
	cfg := Config{
		OperatorID:        viper.GetInt64("operator_id"),
		PublicChannelID:   viper.GetInt64("public_channel_id"),
		PromptTopicID:     viper.GetInt64("prompt_topic_id"),
		RestrictedChatID:  viper.GetInt64("restricted_chat_id"),
		RestrictedTopicID: viper.GetInt64("restricted_topic_id"),
		Telegram: Telegram{
			BotToken:       strings.TrimSpace(viper.GetString("telegram.bot_token")),
			BaseURL:        strings.TrimSpace(viper.GetString("telegram.base_url")),
			PollTimeout:    viper.GetDuration("telegram.poll_timeout"),
			RequestTimeout: viper.GetDuration("telegram.request_timeout"),
			RatePerSecond:  viper.GetFloat64("telegram.rate_per_second"),
		},
		Chat: Chat{
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			InspectDir:  strings.TrimSpace(viper.GetString("llm.inspect_dir")),
		},
		LLM:          llmutil.ConfigFromViper(),
		HealthListen: strings.TrimSpace(viper.GetString("health.listen")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or out-of-range setting by its config key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
