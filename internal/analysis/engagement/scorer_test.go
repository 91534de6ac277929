package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

func users(n int) []chat.Message {
	msgs := make([]chat.Message, n)
	for i := range msgs {
		msgs[i] = chat.Message{Role: chat.RoleUser, Content: "Hi"}
	}
	return msgs
}

func TestScore(t *testing.T) {
	assert.Equal(t, 50, Score(users(5)))
	assert.Equal(t, 0, Score(nil))
	assert.Equal(t, 100, Score(users(15)))
	assert.Equal(t, 100, Score(users(10)))
}

func TestScoreIgnoresNonUserMessages(t *testing.T) {
	msgs := append(users(2), chat.Message{Role: chat.RoleAssistant}, chat.Message{Role: chat.RoleSystem})
	assert.Equal(t, 20, Score(msgs))
}

func TestScoreIsMonotonic(t *testing.T) {
	prev := 0
	for n := 0; n <= 20; n++ {
		got := Score(users(n))
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}
