// Package engagement derives a bounded activity score from a transcript.
package engagement

import "github.com/zhouzirui/adaptive-assistant/internal/model/chat"

const (
	pointsPerMessage = 10
	maxScore         = 100
)

// Score returns min(10 * user messages, 100).
func Score(messages []chat.Message) int {
	users := 0
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			users++
		}
	}
	return min(users*pointsPerMessage, maxScore)
}
