package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/adaptive-assistant/internal/config"
	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
	"github.com/zhouzirui/adaptive-assistant/internal/service/ai"
	chatservice "github.com/zhouzirui/adaptive-assistant/internal/service/chat"
)

type replyCall struct {
	turns     []chat.Turn
	profile   chat.Profile
	analytics chat.Analytics
}

type fakeResponder struct {
	reply string
	calls []replyCall
}

func (f *fakeResponder) Reply(_ context.Context, turns []chat.Turn, profile chat.Profile, analytics chat.Analytics) string {
	f.calls = append(f.calls, replyCall{turns: turns, profile: profile, analytics: analytics})
	return f.reply
}

// steppingClock advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func setup(t *testing.T, responder Responder) (*Service, *chatservice.Service, string) {
	t.Helper()
	sessions := chatservice.NewService()
	session, err := sessions.CreateSession(context.Background())
	require.NoError(t, err)

	svc := NewService(sessions, responder, 0, nil)
	return svc, sessions, session.ID
}

func TestHandleTurnRecordsBothMessages(t *testing.T) {
	responder := &fakeResponder{reply: "Happy to help!"}
	svc, sessions, id := setup(t, responder)
	svc.now = steppingClock(time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC), 1234*time.Millisecond)

	result, err := svc.HandleTurn(context.Background(), id, "API and database error")
	require.NoError(t, err)

	assert.Equal(t, "Happy to help!", result.AssistantMessage.Content)
	assert.Equal(t, chat.StyleConcise, result.Profile.CommunicationStyle)
	assert.Zero(t, result.EngagementScore)

	require.NotNil(t, result.UserMessage.Metadata)
	assert.Equal(t, []string{"technical", "support"}, result.UserMessage.Metadata.Topics)
	assert.Equal(t, 22, result.UserMessage.Metadata.Length)
	assert.Equal(t, 1, result.UserMessage.Metadata.EngagementBoost)
	assert.Equal(t, "09:30:00", result.UserMessage.Timestamp)

	require.NotNil(t, result.AssistantMessage.Insights)
	assert.Equal(t, 1.23, result.AssistantMessage.Insights.ResponseTime)
	assert.Equal(t, chat.StyleConcise, result.AssistantMessage.Insights.AdaptedStyle)
	assert.Equal(t, "09:30:01", result.AssistantMessage.Timestamp)

	session, err := sessions.GetSession(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, chat.RoleUser, session.Messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, map[string]int{"technical": 1, "support": 1}, session.Analytics.TopicsDiscussed)
	require.Len(t, session.Analytics.ResponseTimes, 1)
	assert.InDelta(t, 1.234, session.Analytics.ResponseTimes[0], 1e-9)
}

func TestHandleTurnForwardsCurrentMessageAndProfile(t *testing.T) {
	responder := &fakeResponder{reply: "ok"}
	svc, _, id := setup(t, responder)

	_, err := svc.HandleTurn(context.Background(), id, "Customer growth and sales")
	require.NoError(t, err)

	require.Len(t, responder.calls, 1)
	call := responder.calls[0]
	assert.Equal(t, []chat.Turn{{Role: chat.RoleUser, Content: "Customer growth and sales"}}, call.turns)
	assert.Equal(t, chat.StyleConcise, call.profile.CommunicationStyle)
	assert.Equal(t, []string{"business"}, call.analytics.DominantTopics(3))
}

func TestHandleTurnTopicCountersAccumulate(t *testing.T) {
	svc, sessions, id := setup(t, &fakeResponder{reply: "ok"})
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, id, "the server crashed")
	require.NoError(t, err)
	_, err = svc.HandleTurn(ctx, id, "new software release")
	require.NoError(t, err)

	session, err := sessions.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Analytics.TopicsDiscussed["technical"])
}

func TestHandleTurnEngagementExcludesCurrentMessage(t *testing.T) {
	svc, _, id := setup(t, &fakeResponder{reply: "ok"})
	ctx := context.Background()

	var last TurnResult
	for i := 0; i < 9; i++ {
		var err error
		last, err = svc.HandleTurn(ctx, id, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 80, last.EngagementScore)

	for i := 0; i < 5; i++ {
		var err error
		last, err = svc.HandleTurn(ctx, id, "more")
		require.NoError(t, err)
	}
	assert.Equal(t, 100, last.EngagementScore)
}

func TestHandleTurnTrimsHistory(t *testing.T) {
	responder := &fakeResponder{reply: "ok"}
	svc, _, id := setup(t, responder)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := svc.HandleTurn(ctx, id, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	last := responder.calls[len(responder.calls)-1]
	require.Len(t, last.turns, ai.HistoryLimit)
	assert.Equal(t, "question 6", last.turns[len(last.turns)-1].Content)
	assert.Equal(t, chat.RoleUser, last.turns[len(last.turns)-1].Role)
}

func TestHandleTurnStyleOverridesSelection(t *testing.T) {
	svc, sessions, id := setup(t, &fakeResponder{reply: "ok"})
	ctx := context.Background()

	_, err := sessions.SetStyle(ctx, id, chat.StyleConcise)
	require.NoError(t, err)

	result, err := svc.HandleTurn(ctx, id, strings.Repeat("long words ", 30))
	require.NoError(t, err)
	assert.Equal(t, chat.StyleDetailed, result.Profile.CommunicationStyle)
}

func TestHandleTurnRejectsBlankInput(t *testing.T) {
	responder := &fakeResponder{}
	svc, _, id := setup(t, responder)

	_, err := svc.HandleTurn(context.Background(), id, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, responder.calls)
}

func TestHandleTurnUnknownSession(t *testing.T) {
	svc, _, _ := setup(t, &fakeResponder{})

	_, err := svc.HandleTurn(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, chatservice.ErrSessionNotFound)
}

func TestHandleTurnThinkingRespectsCancellation(t *testing.T) {
	responder := &fakeResponder{reply: "late"}
	svc, sessions, id := setup(t, responder)
	svc.thinkingDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.HandleTurn(ctx, id, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, responder.calls)

	session, err := sessions.GetSession(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, chat.RoleUser, session.Messages[0].Role)
}

func TestHandleTurnWithMissingCredential(t *testing.T) {
	responder, err := ai.NewService(context.Background(), config.AIConfig{}, nil)
	require.NoError(t, err)
	svc, _, id := setup(t, responder)

	result, err := svc.HandleTurn(context.Background(), id, "hello")
	require.NoError(t, err)
	assert.Equal(t, ai.MissingCredentialNotice, result.AssistantMessage.Content)
}
