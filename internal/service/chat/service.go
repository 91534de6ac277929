package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidStyle    = errors.New("invalid communication style")
)

const (
	sessionIDLength = 8
	titleRunes      = 30
)

// entry pairs a session with the lock that serializes its turns.
type entry struct {
	mu      sync.Mutex
	session chat.Session
}

// Service owns every in-memory session for the lifetime of the process.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	order    []string
	now      func() time.Time
}

// NewService returns an empty session store.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Summary is the sidebar view of a session.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
}

// CreateSession provisions a session with empty transcript and default profile.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID()
	for s.sessions[id] != nil {
		id = newSessionID()
	}

	session := chat.NewSession(id, s.now().UTC())
	s.sessions[id] = &entry{session: session}
	s.order = append(s.order, id)

	return session.Clone(), nil
}

// GetSession returns a copy of the session.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// ListSessions returns session summaries in creation order.
func (s *Service) ListSessions(_ context.Context) []Summary {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.sessions[id])
	}
	s.mu.RUnlock()

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		summaries = append(summaries, Summary{
			ID:           e.session.ID,
			Title:        Title(e.session.Messages),
			CreatedAt:    e.session.CreatedAt,
			MessageCount: len(e.session.Messages),
		})
		e.mu.Unlock()
	}
	return summaries
}

// Update runs fn against the live session while holding its lock, so turns of
// one session never interleave. fn may block; other sessions are unaffected.
func (s *Service) Update(_ context.Context, sessionID string, fn func(*chat.Session) error) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.session)
}

// SetStyle applies the user's explicit style choice.
func (s *Service) SetStyle(ctx context.Context, sessionID, style string) (chat.Profile, error) {
	if !chat.ValidStyle(style) {
		return chat.Profile{}, ErrInvalidStyle
	}

	var profile chat.Profile
	err := s.Update(ctx, sessionID, func(session *chat.Session) error {
		session.Profile.CommunicationStyle = style
		profile = session.Profile
		return nil
	})
	return profile, err
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Title derives a display title from the first non-blank user message.
func Title(messages []chat.Message) string {
	if len(messages) == 0 {
		return "New Chat"
	}
	for _, msg := range messages {
		if msg.Role != chat.RoleUser || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if utf8.RuneCountInString(msg.Content) > titleRunes {
			return string([]rune(msg.Content)[:titleRunes]) + "..."
		}
		return msg.Content
	}
	return "Chat"
}

func newSessionID() string {
	return uuid.NewString()[:sessionIDLength]
}
