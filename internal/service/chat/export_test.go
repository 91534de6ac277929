package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

func TestExportDocument(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	svc := NewService()
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, session.ID, func(s *chat.Session) error {
		s.Messages = append(s.Messages, chat.Message{Role: chat.RoleUser, Content: "hello", Timestamp: "05:06:07"})
		s.Analytics.RecordTopics([]string{"general"})
		return nil
	}))

	doc, err := svc.Export(ctx, session.ID)
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	meta := decoded["conversation_metadata"].(map[string]any)
	assert.Equal(t, "2025-03-04T05:06:07Z", meta["timestamp"])
	assert.Equal(t, float64(1), meta["total_messages"])
	assert.Equal(t, session.ID, meta["conversation_id"])

	analytics := decoded["analytics_summary"].(map[string]any)
	assert.Equal(t, map[string]any{"general": float64(1)}, analytics["topics_discussed"])

	profile := decoded["user_profile"].(map[string]any)
	assert.Equal(t, "balanced", profile["communication_style"])
	assert.Equal(t, "en", profile["language"])
}

func TestExportUnknownSession(t *testing.T) {
	_, err := NewService().Export(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2025, 1, 2, 13, 4, 5, 0, time.UTC))
	assert.Equal(t, "valerya_personal_assistant_chat_20250102_130405.json", got)
}
