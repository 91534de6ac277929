// Package assistant runs one user turn end to end: analyze, adapt, ask the model, record.
package assistant

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zhouzirui/adaptive-assistant/internal/analysis/engagement"
	"github.com/zhouzirui/adaptive-assistant/internal/analysis/style"
	"github.com/zhouzirui/adaptive-assistant/internal/analysis/topic"
	"github.com/zhouzirui/adaptive-assistant/internal/logging"
	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
	"github.com/zhouzirui/adaptive-assistant/internal/service/ai"
	chatservice "github.com/zhouzirui/adaptive-assistant/internal/service/chat"
)

// ErrEmptyMessage is returned for blank user input.
var ErrEmptyMessage = errors.New("message content is required")

const maxEngagementBoost = 10

// Responder produces the assistant's reply. *ai.Service implements it.
type Responder interface {
	Reply(ctx context.Context, turns []chat.Turn, profile chat.Profile, analytics chat.Analytics) string
}

// Service wires the analyzers, the session store and the responder together.
type Service struct {
	sessions      *chatservice.Service
	responder     Responder
	thinkingDelay time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates the turn orchestrator.
func NewService(sessions *chatservice.Service, responder Responder, thinkingDelay time.Duration, logger *zap.Logger) *Service {
	return &Service{
		sessions:      sessions,
		responder:     responder,
		thinkingDelay: thinkingDelay,
		logger:        logging.OrNop(logger).Named("assistant"),
		now:           time.Now,
	}
}

// TurnResult is what one user turn produced.
type TurnResult struct {
	SessionID        string       `json:"sessionId"`
	UserMessage      chat.Message `json:"userMessage"`
	AssistantMessage chat.Message `json:"assistantMessage"`
	Profile          chat.Profile `json:"profile"`
	EngagementScore  int          `json:"engagementScore"`
}

// HandleTurn processes text as the next user message of the session. The
// session stays locked for the whole turn, including the completion call.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) (TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, ErrEmptyMessage
	}

	var result TurnResult
	err := s.sessions.Update(ctx, sessionID, func(session *chat.Session) error {
		start := s.now()

		topics := topic.Extract(text)
		session.Analytics.RecordTopics(topics)

		candidate := make([]chat.Message, 0, len(session.Messages)+1)
		candidate = append(candidate, session.Messages...)
		candidate = append(candidate, chat.Message{Role: chat.RoleUser, Content: text})
		session.Profile.CommunicationStyle = string(style.Analyze(candidate))

		// Scored before the new message is appended.
		session.Analytics.UserEngagementScore = engagement.Score(session.Messages)

		length := utf8.RuneCountInString(text)
		userMsg := chat.Message{
			Role:      chat.RoleUser,
			Content:   text,
			Timestamp: start.Format(chat.TimestampLayout),
			Metadata: &chat.Metadata{
				Topics:          topics,
				Length:          length,
				EngagementBoost: min(maxEngagementBoost, length/20),
			},
		}
		session.Messages = append(session.Messages, userMsg)

		if err := s.think(ctx); err != nil {
			return err
		}

		reply := s.responder.Reply(ctx, chat.Turns(recent(session.Messages, ai.HistoryLimit)), session.Profile, session.Analytics.Clone())

		finished := s.now()
		elapsed := finished.Sub(start).Seconds()
		session.Analytics.RecordResponseTime(elapsed)

		assistantMsg := chat.Message{
			Role:      chat.RoleAssistant,
			Content:   reply,
			Timestamp: finished.Format(chat.TimestampLayout),
			Insights: &chat.Insights{
				Topics:       topics,
				AdaptedStyle: session.Profile.CommunicationStyle,
				ResponseTime: math.Round(elapsed*100) / 100,
			},
		}
		session.Messages = append(session.Messages, assistantMsg)

		result = TurnResult{
			SessionID:        session.ID,
			UserMessage:      userMsg,
			AssistantMessage: assistantMsg,
			Profile:          session.Profile,
			EngagementScore:  session.Analytics.UserEngagementScore,
		}

		s.logger.Info("turn completed",
			zap.String("session", session.ID),
			zap.Strings("topics", topics),
			zap.String("style", session.Profile.CommunicationStyle),
			zap.Int("engagement", session.Analytics.UserEngagementScore),
			zap.Float64("response_time", elapsed),
		)
		return nil
	})
	if err != nil {
		return TurnResult{}, err
	}
	return result, nil
}

// think pauses for the configured delay unless ctx ends first.
func (s *Service) think(ctx context.Context) error {
	if s.thinkingDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.thinkingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func recent(messages []chat.Message, limit int) []chat.Message {
	if len(messages) > limit {
		return messages[len(messages)-limit:]
	}
	return messages
}
