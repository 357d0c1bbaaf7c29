package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Moderation
	viper.SetDefault("operator_id", 0)
	viper.SetDefault("public_channel_id", 0)
	viper.SetDefault("prompt_topic_id", 0)
	viper.SetDefault("restricted_chat_id", 0)
	viper.SetDefault("restricted_topic_id", 0)

	// State documents
	viper.SetDefault("file_state_dir", ".")
	viper.SetDefault("state.bot_data_file", "data.json")
	viper.SetDefault("state.verified_users_file", "verified_users.json")
	viper.SetDefault("state.last_prompt_file", "last_verification_message.json")

	// LLM
	viper.SetDefault("llm.provider", "together")
	viper.SetDefault("llm.endpoint", "")
	// Empty picks a per-provider default in llmutil.
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.request_timeout", 60*time.Second)
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 0)
	viper.SetDefault("llm.inspect_dir", "")

	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.base_url", "")
	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.request_timeout", 30*time.Second)
	viper.SetDefault("telegram.rate_per_second", 25.0)

	// Health
	viper.SetDefault("health.listen", "")
}
