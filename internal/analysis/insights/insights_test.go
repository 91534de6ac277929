package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

func TestBuildEmptySession(t *testing.T) {
	report := Build(chat.NewSession("abc", time.Now()))

	assert.Zero(t, report.EngagementScore)
	assert.Nil(t, report.EngagementDelta)
	assert.Zero(t, report.TopicDiversity)
	assert.Nil(t, report.MessageLengths)
	assert.Empty(t, report.TopicsDiscussed)
}

func TestBuildShortSession(t *testing.T) {
	session := chat.NewSession("abc", time.Now())
	session.Messages = []chat.Message{
		{Role: chat.RoleUser, Content: "api bug"},
		{Role: chat.RoleAssistant, Content: "Let me help."},
	}

	report := Build(session)

	assert.Nil(t, report.EngagementDelta)
	assert.Equal(t, 2, report.TopicDiversity)
	assert.Nil(t, report.MessageLengths)
}

func TestBuildLongSession(t *testing.T) {
	session := chat.NewSession("abc", time.Now())
	session.Analytics.UserEngagementScore = 20
	session.Analytics.RecordResponseTime(1)
	session.Analytics.RecordResponseTime(3)
	session.Analytics.RecordTopics([]string{"general"})
	session.Messages = []chat.Message{
		{Role: chat.RoleUser, Content: "hello"},
		{Role: chat.RoleAssistant, Content: "hi"},
		{Role: chat.RoleUser, Content: "sales growth"},
		{Role: chat.RoleAssistant, Content: "ok"},
		{Role: chat.RoleUser, Content: "né"},
	}

	report := Build(session)

	require.NotNil(t, report.EngagementDelta)
	assert.Equal(t, 5, *report.EngagementDelta)
	assert.Equal(t, 20, report.EngagementScore)
	assert.InDelta(t, 2.0, report.AverageResponseTime, 1e-9)
	assert.Equal(t, 2, report.TopicDiversity)
	assert.Equal(t, []int{5, 2, 12, 2, 2}, report.MessageLengths)
	assert.Equal(t, map[string]int{"general": 1}, report.TopicsDiscussed)
}

func TestEngagementDeltaIsCapped(t *testing.T) {
	session := chat.NewSession("abc", time.Now())
	for i := 0; i < 14; i++ {
		session.Messages = append(session.Messages, chat.Message{Role: chat.RoleUser, Content: "x"})
	}

	report := Build(session)
	require.NotNil(t, report.EngagementDelta)
	assert.Equal(t, 10, *report.EngagementDelta)
}
