package chat

import (
	"context"
	"time"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

// ExportMetadata heads an exported conversation.
type ExportMetadata struct {
	Timestamp      string `json:"timestamp"`
	TotalMessages  int    `json:"total_messages"`
	ConversationID string `json:"conversation_id"`
}

// Export is the downloadable analytics document.
type Export struct {
	ConversationMetadata ExportMetadata `json:"conversation_metadata"`
	Messages             []chat.Message `json:"messages"`
	AnalyticsSummary     chat.Analytics `json:"analytics_summary"`
	UserProfile          chat.Profile   `json:"user_profile"`
}

// Export snapshots a session into an export document.
func (s *Service) Export(ctx context.Context, sessionID string) (Export, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Export{}, err
	}

	return Export{
		ConversationMetadata: ExportMetadata{
			Timestamp:      s.now().Format(time.RFC3339Nano),
			TotalMessages:  len(session.Messages),
			ConversationID: session.ID,
		},
		Messages:         session.Messages,
		AnalyticsSummary: session.Analytics,
		UserProfile:      session.Profile,
	}, nil
}

// ExportFilename names the download for an export taken at t.
func ExportFilename(t time.Time) string {
	return "valerya_personal_assistant_chat_" + t.Format("20060102_150405") + ".json"
}
