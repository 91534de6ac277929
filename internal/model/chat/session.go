package chat

import "time"

// Communication styles a profile can hold.
const (
	StyleDetailed = "detailed"
	StyleConcise  = "concise"
	StyleBalanced = "balanced"
)

// Styles lists the options offered by the style selector, in display order.
func Styles() []string {
	return []string{StyleDetailed, StyleConcise, StyleBalanced}
}

// ValidStyle reports whether style is one of the selectable styles.
func ValidStyle(style string) bool {
	for _, s := range Styles() {
		if s == style {
			return true
		}
	}
	return false
}

// Session captures one in-memory conversation thread.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
	Analytics Analytics `json:"analytics"`
	Profile   Profile   `json:"profile"`
}

// NewSession returns a session with empty transcript and default analytics/profile.
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		CreatedAt: now,
		Messages:  make([]Message, 0, 16),
		Analytics: NewAnalytics(),
		Profile:   DefaultProfile(),
	}
}

// Clone returns a deep copy safe to hand out of the session store.
func (s Session) Clone() Session {
	cp := s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	cp.Analytics = s.Analytics.Clone()
	return cp
}

// Profile holds per-session adaptive settings.
type Profile struct {
	CommunicationStyle string `json:"communication_style"`
	// ExpertiseLevel and PreferredResponseLength are carried in exports but no logic reads them.
	ExpertiseLevel          string `json:"expertise_level"`
	PreferredResponseLength string `json:"preferred_response_length"`
	Language                string `json:"language"`
}

// DefaultProfile is the profile every new session starts with.
func DefaultProfile() Profile {
	return Profile{
		CommunicationStyle:      StyleBalanced,
		ExpertiseLevel:          "beginner",
		PreferredResponseLength: "medium",
		Language:                "en",
	}
}
