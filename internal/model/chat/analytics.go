package chat

import "encoding/json"

// Analytics holds derived per-session metrics.
type Analytics struct {
	TopicsDiscussed     map[string]int `json:"topics_discussed"`
	ResponseTimes       []float64      `json:"response_times"`
	UserEngagementScore int            `json:"user_engagement_score"`
	// ConversationDepth is never updated.
	ConversationDepth int `json:"conversation_depth"`

	// topicOrder remembers first-seen order; maps do not.
	topicOrder []string
}

// NewAnalytics returns zeroed analytics.
func NewAnalytics() Analytics {
	return Analytics{
		TopicsDiscussed: make(map[string]int),
		ResponseTimes:   []float64{},
	}
}

// RecordTopics increments the counter of each topic. Counters never decrease.
func (a *Analytics) RecordTopics(topics []string) {
	if a.TopicsDiscussed == nil {
		a.TopicsDiscussed = make(map[string]int)
	}
	for _, topic := range topics {
		if _, seen := a.TopicsDiscussed[topic]; !seen {
			a.topicOrder = append(a.topicOrder, topic)
		}
		a.TopicsDiscussed[topic]++
	}
}

// TopicOrder returns topics in the order they were first discussed.
func (a Analytics) TopicOrder() []string {
	return append([]string(nil), a.topicOrder...)
}

// DominantTopics returns up to limit topics in first-discussed order.
func (a Analytics) DominantTopics(limit int) []string {
	order := a.TopicOrder()
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

// RecordResponseTime appends a latency sample in seconds.
func (a *Analytics) RecordResponseTime(seconds float64) {
	a.ResponseTimes = append(a.ResponseTimes, seconds)
}

// AverageResponseTime returns the mean latency, 0 when nothing was recorded.
func (a Analytics) AverageResponseTime() float64 {
	if len(a.ResponseTimes) == 0 {
		return 0
	}
	var total float64
	for _, rt := range a.ResponseTimes {
		total += rt
	}
	return total / float64(len(a.ResponseTimes))
}

// Clone deep-copies the analytics record.
func (a Analytics) Clone() Analytics {
	cp := a
	cp.TopicsDiscussed = make(map[string]int, len(a.TopicsDiscussed))
	for k, v := range a.TopicsDiscussed {
		cp.TopicsDiscussed[k] = v
	}
	cp.ResponseTimes = append([]float64{}, a.ResponseTimes...)
	cp.topicOrder = append([]string(nil), a.topicOrder...)
	return cp
}

// MarshalJSON emits empty collections rather than null.
func (a Analytics) MarshalJSON() ([]byte, error) {
	type plain Analytics
	p := plain(a)
	if p.TopicsDiscussed == nil {
		p.TopicsDiscussed = map[string]int{}
	}
	if p.ResponseTimes == nil {
		p.ResponseTimes = []float64{}
	}
	return json.Marshal(p)
}
