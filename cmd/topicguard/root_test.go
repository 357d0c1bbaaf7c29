package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quailyquaily/topicguard/internal/llmutil"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestInitConfigReadsLegacyEnvNames(t *testing.T) {
	resetViper(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy-token")
	t.Setenv("ADMIN_ID", "1000")
	t.Setenv("PUBLIC_CHANNEL_ID", "-100500")
	t.Setenv("TOPICGUARD_RESTRICTED_TOPIC_ID", "77")
	t.Setenv("RESTRICTED_TOPIC_ID", "1")
	viper.Set("env_file", "")

	initConfig()

	if got := viper.GetString("telegram.bot_token"); got != "legacy-token" {
		t.Fatalf("telegram.bot_token = %q, want legacy-token", got)
	}
	if got := viper.GetInt64("operator_id"); got != 1000 {
		t.Fatalf("operator_id = %d, want 1000", got)
	}
	if got := viper.GetInt64("public_channel_id"); got != -100500 {
		t.Fatalf("public_channel_id = %d, want -100500", got)
	}
	if got := viper.GetInt64("restricted_topic_id"); got != 77 {
		t.Fatalf("restricted_topic_id = %d, want prefixed value 77", got)
	}
	if got := llmutil.ConfigFromViper().Model; got != llmutil.DefaultTogetherModel {
		t.Fatalf("llm model = %q, want together default", got)
	}
}

func TestInitConfigLoadsDotenv(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("TOGETHER_AI_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("TOGETHER_AI_API_KEY", "")
	os.Unsetenv("TOGETHER_AI_API_KEY")
	viper.Set("env_file", envFile)

	initConfig()

	if got := viper.GetString("llm.api_key"); got != "from-dotenv" {
		t.Fatalf("llm.api_key = %q, want from-dotenv", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "topicguard dev") {
		t.Fatalf("version output = %q", out.String())
	}
}

func TestPrintStateReadsFiles(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	initViperDefaults()
	viper.Set("file_state_dir", dir)

	files := map[string]string{
		"data.json":                      `{"verification_keywords":["alpha"],"verification_reference":"ref"}`,
		"verified_users.json":            `{"99":true,"5":true}`,
		"last_verification_message.json": `{"messageId":314}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	store, err := openStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	var out bytes.Buffer
	printState(&out, store)

	got := out.String()
	for _, want := range []string{"314", "alpha", "Verified users (2)", "5", "99"} {
		if !strings.Contains(got, want) {
			t.Fatalf("state output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "  5") > strings.Index(got, "  99") {
		t.Fatalf("verified users not sorted:\n%s", got)
	}
}

func TestLockInstanceRejectsSecondHolder(t *testing.T) {
	resetViper(t)
	initViperDefaults()
	viper.Set("file_state_dir", t.TempDir())

	release, err := lockInstance()
	if err != nil {
		t.Fatalf("lockInstance() error = %v", err)
	}
	defer release()

	if _, err := lockInstance(); err == nil || !strings.Contains(err.Error(), "another topicguard instance") {
		t.Fatalf("second lockInstance() error = %v", err)
	}
}

func TestChatClientWithoutCredentialsIsDisabled(t *testing.T) {
	resetViper(t)
	initViperDefaults()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, provider := range []string{"together", "gemini", "anthropic", "bedrock"} {
		viper.Set("llm.provider", provider)
		client, err := chatClient(context.Background(), llmutil.ConfigFromViper(), logger)
		if err != nil {
			t.Fatalf("chatClient(%s) error = %v, want nil", provider, err)
		}
		if client != nil {
			t.Fatalf("chatClient(%s) = %T, want nil client", provider, client)
		}
	}
}
