package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/adaptive-assistant/internal/config"
	"github.com/zhouzirui/adaptive-assistant/internal/logging"
	"github.com/zhouzirui/adaptive-assistant/internal/service/ai"
	"github.com/zhouzirui/adaptive-assistant/internal/service/assistant"
	"github.com/zhouzirui/adaptive-assistant/internal/service/chat"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "assistant",
	Short:         "Valerya's Personal Assistant backend",
	Long:          "An adaptive chat assistant that tunes its prompt to each conversation's topics, style and engagement.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired services shared by every command.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	chatSvc      *chat.Service
	assistantSvc *assistant.Service
}

func bootstrap(ctx context.Context) (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment only", zap.Error(envErr))
	}

	aiSvc, err := ai.NewService(ctx, cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}
	if aiSvc.Enabled() {
		logger.Info("AI service initialized", zap.String("model", cfg.AI.Model), zap.String("base_url", cfg.AI.BaseURL))
	}

	chatSvc := chat.NewService()
	return &app{
		cfg:          cfg,
		logger:       logger,
		chatSvc:      chatSvc,
		assistantSvc: assistant.NewService(chatSvc, aiSvc, cfg.Assistant.ThinkingDelay, logger),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
