package store

import (
	"sort"
	"sync"

	"github.com/s21platform/chat-sync/internal/model"
)

type ChangeKind int

const (
	ChangeUpsert ChangeKind = iota + 1
	ChangeDelete
	ChangeReadCursor
)

// Change is a journal record of a confirmed mutation the cache has to mirror.
type Change struct {
	Kind      ChangeKind
	SpaceID   string
	MessageID string
	Message   *model.Message
	Cursor    model.ReadCursor
}

type Option func(*Store)

// WithJournal makes the store record changes for DrainChanges.
func WithJournal() Option {
	return func(s *Store) {
		s.journal = true
	}
}

// Store holds every space's message log, unread counter and read cursors.
// Every method is total: unknown spaces or ids are silent no-ops.
type Store struct {
	mu       sync.RWMutex
	spaces   map[string]*spaceLog
	dir      map[string]model.Space
	presence map[string]string
	journal  bool
	changes  []Change
}

type spaceLog struct {
	messages   []model.Message
	hasMore    bool
	unread     int
	tombstones map[string]struct{}
	// receipts holds each reader's highest acknowledged seq.
	receipts  map[string]model.ReadCursor
	localUser string
	ownCursor model.ReadCursor
	typing    map[string]struct{}
}

func New(opts ...Option) *Store {
	s := &Store{
		spaces:   make(map[string]*spaceLog),
		dir:      make(map[string]model.Space),
		presence: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) space(spaceID string) *spaceLog {
	l, ok := s.spaces[spaceID]
	if !ok {
		l = &spaceLog{
			tombstones: make(map[string]struct{}),
			receipts:   make(map[string]model.ReadCursor),
			typing:     make(map[string]struct{}),
		}
		s.spaces[spaceID] = l
	}
	return l
}

func (l *spaceLog) indexByID(messageID string) int {
	for i := range l.messages {
		if l.messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

func (l *spaceLog) indexPending(clientMessageID string) int {
	for i := range l.messages {
		if l.messages[i].IsPending() && l.messages[i].ClientMessageID == clientMessageID {
			return i
		}
	}
	return -1
}

// insertIndex keeps confirmed messages in seq order. Messages without a seq go to the tail,
// and pending entries stay behind any confirmed message inserted before them.
func (l *spaceLog) insertIndex(m *model.Message) int {
	pos := len(l.messages)
	if !m.HasSeq() {
		return pos
	}
	for i := len(l.messages) - 1; i >= 0; i-- {
		if !l.messages[i].HasSeq() {
			continue
		}
		if l.messages[i].Seq < m.Seq {
			return i + 1
		}
		pos = i
	}
	return pos
}

func (l *spaceLog) insertAt(i int, m model.Message) {
	l.messages = append(l.messages, model.Message{})
	copy(l.messages[i+1:], l.messages[i:])
	l.messages[i] = m
}

func (l *spaceLog) removeAt(i int) {
	l.messages = append(l.messages[:i], l.messages[i+1:]...)
}

// applyReceipts flags an own message read when a peer already acknowledged its seq.
func (l *spaceLog) applyReceipts(m *model.Message) {
	if l.localUser == "" || m.SenderID != l.localUser || !m.HasSeq() {
		return
	}
	for reader, cursor := range l.receipts {
		if reader != l.localUser && cursor.LastReadSeq >= m.Seq {
			m.Read = true
			m.Delivered = true
			return
		}
	}
}

func (s *Store) recordUpsert(m model.Message) {
	if !s.journal || m.IsPending() {
		return
	}
	snapshot := m.Clone()
	s.changes = append(s.changes, Change{Kind: ChangeUpsert, SpaceID: m.SpaceID, MessageID: m.ID, Message: &snapshot})
}

func (s *Store) recordDelete(spaceID, messageID string) {
	if !s.journal {
		return
	}
	s.changes = append(s.changes, Change{Kind: ChangeDelete, SpaceID: spaceID, MessageID: messageID})
}

// DrainChanges returns and clears the journal.
func (s *Store) DrainChanges() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	changes := s.changes
	s.changes = nil
	return changes
}

func (s *Store) SetSpaces(spaces []model.Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sp := range spaces {
		if sp.ID == "" {
			continue
		}
		s.dir[sp.ID] = sp
	}
}

func (s *Store) Spaces() []model.Space {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Space, 0, len(s.dir))
	for _, sp := range s.dir {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) SetTyping(spaceID, userID string, typing bool) {
	if spaceID == "" || userID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	if typing {
		l.typing[userID] = struct{}{}
		return
	}
	delete(l.typing, userID)
}

func (s *Store) TypingUsers(spaceID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(l.typing))
	for userID := range l.typing {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

func (s *Store) SetPresence(userID, status string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presence[userID] = status
}

func (s *Store) Presence(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.presence[userID]
}
