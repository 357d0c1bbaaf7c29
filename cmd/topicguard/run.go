package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	telegramruntime "github.com/quailyquaily/topicguard/internal/channelruntime/telegram"
	"github.com/quailyquaily/topicguard/internal/config"
	"github.com/quailyquaily/topicguard/internal/fsstore"
	"github.com/quailyquaily/topicguard/internal/guardbot"
	"github.com/quailyquaily/topicguard/internal/llminspect"
	"github.com/quailyquaily/topicguard/internal/llmutil"
	"github.com/quailyquaily/topicguard/internal/logutil"
	"github.com/quailyquaily/topicguard/internal/state"
	"github.com/quailyquaily/topicguard/internal/statepaths"
	"github.com/quailyquaily/topicguard/internal/telegramapi"
	"github.com/quailyquaily/topicguard/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Moderate the restricted topic and run the verification workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			cfg, err := config.FromViper()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBot(ctx, cfg, logger)
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().Int64("operator-id", 0, "Telegram user id of the operator.")
	cmd.Flags().Int64("public-channel-id", 0, "Chat id where the verification prompt is posted.")
	cmd.Flags().Int64("restricted-topic-id", 0, "Forum topic id only the operator may post in (0 disables).")
	cmd.Flags().String("health-listen", "", "Address for the /healthz endpoint (empty disables).")
	cmd.Flags().String("inspect-prompt-dir", "", "Dump every /chat prompt and answer to a markdown file in this directory.")

	_ = viper.BindPFlag("telegram.bot_token", cmd.Flags().Lookup("telegram-bot-token"))
	_ = viper.BindPFlag("operator_id", cmd.Flags().Lookup("operator-id"))
	_ = viper.BindPFlag("public_channel_id", cmd.Flags().Lookup("public-channel-id"))
	_ = viper.BindPFlag("restricted_topic_id", cmd.Flags().Lookup("restricted-topic-id"))
	_ = viper.BindPFlag("health.listen", cmd.Flags().Lookup("health-listen"))
	_ = viper.BindPFlag("llm.inspect_dir", cmd.Flags().Lookup("inspect-prompt-dir"))

	return cmd
}

func runBot(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	release, err := lockInstance()
	if err != nil {
		return err
	}
	defer release()

	store, err := openStore(logger)
	if err != nil {
		return err
	}

	client, err := chatClient(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}
	if client != nil && cfg.Chat.InspectDir != "" {
		inspector, err := llminspect.New(llminspect.Options{Dir: cfg.Chat.InspectDir, Model: cfg.LLM.Model})
		if err != nil {
			return err
		}
		defer inspector.Close()
		logger.Info("llm_inspect_enabled", "path", inspector.Path())
		client = &llminspect.Client{Base: client, Inspector: inspector}
	}

	api := telegramapi.New(telegramapi.Options{
		BaseURL:        cfg.Telegram.BaseURL,
		Token:          cfg.Telegram.BotToken,
		RequestTimeout: cfg.Telegram.RequestTimeout,
		RatePerSecond:  cfg.Telegram.RatePerSecond,
	})
	router, err := guardbot.NewRouter(guardbot.Config{
		OperatorID:        cfg.OperatorID,
		PublicChannelID:   cfg.PublicChannelID,
		PromptTopicID:     cfg.PromptTopicID,
		RestrictedChatID:  cfg.RestrictedChatID,
		RestrictedTopicID: cfg.RestrictedTopicID,
		Model:             cfg.LLM.Model,
		Temperature:       cfg.Chat.Temperature,
		MaxTokens:         cfg.Chat.MaxTokens,
	}, guardbot.Dependencies{
		Gateway:  telegramruntime.NewGateway(api),
		Store:    store,
		Registry: guardbot.NewRegistry(),
		LLM:      client,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("topicguard_start",
		"version", strings.TrimSpace(version),
		"operator_id", cfg.OperatorID,
		"public_channel_id", cfg.PublicChannelID,
		"restricted_topic_id", cfg.RestrictedTopicID,
		"state_dir", statepaths.FileStateDir(),
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.Model,
	)
	return telegramruntime.Run(ctx, telegramruntime.Dependencies{
		API:     api,
		Handler: router,
		Logger:  logger,
	}, telegramruntime.RunOptions{
		PollTimeout:  cfg.Telegram.PollTimeout,
		HealthListen: cfg.HealthListen,
	})
}

// lockInstance keeps a second bot from writing the same state directory.
func lockInstance() (func(), error) {
	path, err := fsstore.BuildLockPath(statepaths.LockDir(), "instance")
	if err != nil {
		return nil, err
	}
	lock, err := fsstore.TryAcquire(path)
	if errors.Is(err, fsstore.ErrLockHeld) {
		return nil, fmt.Errorf("another topicguard instance is using %s", statepaths.FileStateDir())
	}
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release() }, nil
}

func openStore(logger *slog.Logger) (*state.Store, error) {
	backend, err := state.NewFileBackend(state.FileBackendOptions{
		BotDataPath:       statepaths.BotDataPath(),
		VerifiedUsersPath: statepaths.VerifiedUsersPath(),
		LastPromptPath:    statepaths.LastPromptPath(),
		LockDir:           statepaths.LockDir(),
	})
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	return state.Open(backend, logger), nil
}

// chatClient returns nil when the provider has no credentials; /chat then
// answers with the unavailable notice.
func chatClient(ctx context.Context, cfg llmutil.ClientConfig, logger *slog.Logger) (llm.Client, error) {
	if !llmutil.HasCredentials(cfg) {
		logger.Warn("llm_disabled", "reason", "missing credentials", "provider", cfg.Provider)
		return nil, nil
	}
	client, err := llmutil.ClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return client, nil
}
