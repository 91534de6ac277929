// Package style infers how verbose the user is from recent messages.
package style

import (
	"unicode/utf8"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

// Label is an inferred communication style.
type Label string

const (
	Detailed Label = chat.StyleDetailed
	Concise  Label = chat.StyleConcise
	Balanced Label = chat.StyleBalanced
	Neutral  Label = "neutral"
)

const (
	window        = 3
	detailedAbove = 200.0
	conciseBelow  = 50.0
)

// Analyze looks at the last three messages, keeps the user-authored ones and
// thresholds their mean length in characters.
func Analyze(messages []chat.Message) Label {
	if len(messages) == 0 {
		return Neutral
	}

	start := len(messages) - window
	if start < 0 {
		start = 0
	}

	total, count := 0, 0
	for _, msg := range messages[start:] {
		if msg.Role != chat.RoleUser {
			continue
		}
		total += utf8.RuneCountInString(msg.Content)
		count++
	}
	if count == 0 {
		return Neutral
	}

	avg := float64(total) / float64(count)
	switch {
	case avg > detailedAbove:
		return Detailed
	case avg < conciseBelow:
		return Concise
	default:
		return Balanced
	}
}
