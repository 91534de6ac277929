// Package insights computes the numbers behind the conversation analytics panel.
package insights

import (
	"unicode/utf8"

	"github.com/zhouzirui/adaptive-assistant/internal/analysis/topic"
	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

const (
	deltaAfterMessages = 2
	flowAfterMessages  = 4
	maxEngagementDelta = 10
)

// Report is a snapshot of session analytics for display.
type Report struct {
	EngagementScore     int            `json:"engagementScore"`
	EngagementDelta     *int           `json:"engagementDelta,omitempty"`
	AverageResponseTime float64        `json:"averageResponseTime"`
	TopicDiversity      int            `json:"topicDiversity"`
	TopicsDiscussed     map[string]int `json:"topicsDiscussed"`
	MessageLengths      []int          `json:"messageLengths,omitempty"`
}

// Build derives the report. An empty session yields a zero report.
func Build(session chat.Session) Report {
	report := Report{
		EngagementScore:     session.Analytics.UserEngagementScore,
		AverageResponseTime: session.Analytics.AverageResponseTime(),
		TopicsDiscussed:     session.Analytics.Clone().TopicsDiscussed,
	}

	messages := session.Messages
	if len(messages) == 0 {
		return report
	}

	if len(messages) > deltaAfterMessages {
		delta := min(maxEngagementDelta, len(messages))
		report.EngagementDelta = &delta
	}

	report.TopicDiversity = topicDiversity(messages)

	if len(messages) > flowAfterMessages {
		report.MessageLengths = make([]int, len(messages))
		for i, msg := range messages {
			report.MessageLengths[i] = utf8.RuneCountInString(msg.Content)
		}
	}
	return report
}

// topicDiversity counts distinct topics across every message, assistant replies included.
func topicDiversity(messages []chat.Message) int {
	seen := make(map[string]struct{})
	for _, msg := range messages {
		for _, t := range topic.Extract(msg.Content) {
			seen[t] = struct{}{}
		}
	}
	return len(seen)
}
