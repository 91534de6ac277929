// Package topic classifies free text into coarse conversation topics.
package topic

import "strings"

// Topic tags.
const (
	Technical = "technical"
	Business  = "business"
	Support   = "support"
	General   = "general"
)

type bucket struct {
	tag      string
	keywords []string
}

// buckets are checked in this order; the result keeps it.
var buckets = []bucket{
	{tag: Technical, keywords: []string{"api", "database", "server", "code", "software", "bug", "feature"}},
	{tag: Business, keywords: []string{"revenue", "customer", "sales", "marketing", "strategy", "growth"}},
	{tag: Support, keywords: []string{"help", "issue", "problem", "error", "troubleshoot", "fix"}},
}

// Extract returns the topic tags found in text. Matching is plain substring
// containment on the lowercased text, so "apiary" counts as technical.
// The result is never empty: text matching no bucket yields [general].
func Extract(text string) []string {
	normalized := strings.ToLower(text)

	var topics []string
	for _, b := range buckets {
		if containsAny(normalized, b.keywords) {
			topics = append(topics, b.tag)
		}
	}

	if len(topics) == 0 {
		return []string{General}
	}
	return topics
}

func containsAny(text string, keywords []string) bool {
	for _, word := range keywords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
