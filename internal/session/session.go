package session

import (
	"sync"
	"sync/atomic"
)

// Compose is the input state of one space: the unsent draft and the message being replied to.
type Compose struct {
	Draft     string  `json:"draft"`
	ReplyToID *string `json:"reply_to_id,omitempty"`
}

// Session is read through on every call, so long-lived listeners always observe the current
// user and the currently active space rather than the values at subscription time.
type Session struct {
	currentUserID string
	activeSpaceID atomic.Value

	mu      sync.Mutex
	compose map[string]Compose
}

func New(currentUserID string) *Session {
	s := &Session{
		currentUserID: currentUserID,
		compose:       make(map[string]Compose),
	}
	s.activeSpaceID.Store("")
	return s
}

func (s *Session) CurrentUserID() string {
	return s.currentUserID
}

func (s *Session) ActiveSpaceID() string {
	return s.activeSpaceID.Load().(string)
}

func (s *Session) SetActiveSpace(spaceID string) {
	s.activeSpaceID.Store(spaceID)
}

func (s *Session) SetDraft(spaceID, draft string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.compose[spaceID]
	c.Draft = draft
	s.compose[spaceID] = c
}

func (s *Session) SetReplyTo(spaceID string, messageID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.compose[spaceID]
	c.ReplyToID = messageID
	s.compose[spaceID] = c
}

func (s *Session) Compose(spaceID string) Compose {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.compose[spaceID]
}

func (s *Session) ClearCompose(spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.compose, spaceID)
}
