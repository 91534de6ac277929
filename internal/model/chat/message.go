package chat

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the roles the completion endpoint accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is one entry of a session transcript. Messages are never modified after append.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	Insights  *Insights `json:"insights,omitempty"`
}

// Metadata is attached to user messages.
type Metadata struct {
	Topics          []string `json:"topics"`
	Length          int      `json:"length"`
	EngagementBoost int      `json:"engagement_boost"`
}

// Insights is attached to assistant messages.
type Insights struct {
	Topics       []string `json:"topics"`
	AdaptedStyle string   `json:"adapted_style"`
	ResponseTime float64  `json:"response_time"`
}

// Turn is the role/content pair forwarded to the completion endpoint.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turns strips messages down to role/content pairs.
func Turns(messages []Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}

// TimestampLayout is the wall-clock format stored on messages.
const TimestampLayout = "15:04:05"
