package ai

import (
	"strings"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

const (
	basePrompt = "You are Valerya's Personal Assistant, an advanced conversational AI for customer success."

	englishOnlyPrompt = "Always reply in English, regardless of the user's input language."

	highEngagementPrompt = "The user is highly engaged — feel free to ask clarifying questions."

	highEngagementThreshold = 70
)

var styleInstructions = map[string]string{
	chat.StyleDetailed: "Give detailed, step-by-step answers with examples.",
	chat.StyleConcise:  "Be brief and to the point, but helpful.",
	chat.StyleBalanced: "Balance brevity and detail.",
}

// ConversationContext is the analytics summary the prompt adapts to.
type ConversationContext struct {
	DominantTopics  []string
	EngagementLevel int
}

// ComposeSystemPrompt renders the system instruction. The first four lines are
// always present (possibly empty): identity, style, topic focus and language.
// A fifth line invites clarifying questions when engagement is above 70.
func ComposeSystemPrompt(profile chat.Profile, convCtx ConversationContext) string {
	var topicLine string
	if len(convCtx.DominantTopics) > 0 {
		topicLine = "The conversation has focused on: " + strings.Join(convCtx.DominantTopics, ", ") + ". Adjust accordingly."
	}

	var languageLine string
	if profile.Language == "en" {
		languageLine = englishOnlyPrompt
	}

	lines := []string{
		basePrompt,
		styleInstructions[profile.CommunicationStyle],
		topicLine,
		languageLine,
	}
	if convCtx.EngagementLevel > highEngagementThreshold {
		lines = append(lines, highEngagementPrompt)
	}
	return strings.Join(lines, "\n")
}
