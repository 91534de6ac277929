package ai

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/adaptive-assistant/internal/config"
	"github.com/zhouzirui/adaptive-assistant/internal/logging"
	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

const (
	// HistoryLimit is the number of most recent messages forwarded per request.
	HistoryLimit = 10

	// MissingCredentialNotice is returned in place of a reply when no API key is configured.
	MissingCredentialNotice = "OPENAI_API_KEY not found. Please add it to .env."

	dominantTopicLimit = 3
	errorPreviewRunes  = 50
)

// Service sends the adaptive prompt plus recent history to the completion endpoint.
type Service struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewService builds the service from configuration. Without a credential the
// service is still usable and answers every request with MissingCredentialNotice.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	logger = logging.OrNop(logger).Named("ai")
	if !cfg.Enabled() {
		logger.Warn("completion credential missing, replies will carry a setup notice")
		return &Service{logger: logger}, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, logger)
}

// NewServiceWithModel wires an existing chat model into the prompt chain.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable, logger: logging.OrNop(logger).Named("ai")}, nil
}

// Enabled reports whether requests reach the completion endpoint.
func (s *Service) Enabled() bool {
	return s != nil && s.chain != nil
}

// Reply returns the model's answer for the given history. It never fails:
// endpoint errors come back as a short "Error: ..." text, with the full error logged.
func (s *Service) Reply(ctx context.Context, turns []chat.Turn, profile chat.Profile, analytics chat.Analytics) string {
	if !s.Enabled() {
		return MissingCredentialNotice
	}

	input := map[string]any{
		"system": ComposeSystemPrompt(profile, ConversationContext{
			DominantTopics:  analytics.DominantTopics(dominantTopicLimit),
			EngagementLevel: analytics.UserEngagementScore,
		}),
		"history": buildHistoryMessages(turns),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		s.logger.Error("completion request failed", zap.Error(err), zap.Int("history", len(turns)))
		return fmt.Sprintf("Error: %s...", truncateRunes(err.Error(), errorPreviewRunes))
	}
	if response == nil {
		return ""
	}

	s.logger.Debug("completion received", zap.Int("length", len(response.Content)))
	return response.Content
}

// buildHistoryMessages converts turns to schema messages, dropping unknown roles.
func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		case chat.RoleSystem:
			history = append(history, schema.SystemMessage(turn.Content))
		}
	}
	return history
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
