package store

import (
	"github.com/s21platform/chat-sync/internal/model"
)

func (s *Store) IncrementUnreadCount(spaceID string) {
	if spaceID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.space(spaceID).unread++
}

// ResetUnreadCount clamps to zero; counts drift across reconnects so it never subtracts.
func (s *Store) ResetUnreadCount(spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.spaces[spaceID]; ok {
		l.unread = 0
	}
}

func (s *Store) UnreadCount(spaceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.spaces[spaceID]; ok {
		return l.unread
	}
	return 0
}

func (s *Store) UnreadCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.spaces))
	for id, l := range s.spaces {
		out[id] = l.unread
	}
	return out
}

// MarkMessagesRead flags every message currentUserID sent with seq <= lastReadSeq as read.
// Flags are never cleared, so a lower watermark arriving late changes nothing.
func (s *Store) MarkMessagesRead(spaceID string, lastReadSeq int64, readerUserID, currentUserID string) {
	if spaceID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	if currentUserID != "" {
		l.localUser = currentUserID
	}
	if readerUserID != "" {
		if held, ok := l.receipts[readerUserID]; !ok || lastReadSeq > held.LastReadSeq {
			l.receipts[readerUserID] = model.ReadCursor{LastReadSeq: lastReadSeq}
		}
	}

	for i := range l.messages {
		m := &l.messages[i]
		if m.SenderID != currentUserID || !m.HasSeq() || m.Seq > lastReadSeq || m.Read {
			continue
		}
		m.Read = true
		m.Delivered = true
		s.recordUpsert(*m)
	}
}

// ReadCursor returns the highest watermark seen from readerUserID in the space.
func (s *Store) ReadCursor(spaceID, readerUserID string) (model.ReadCursor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok {
		return model.ReadCursor{}, false
	}
	c, ok := l.receipts[readerUserID]
	return c, ok
}

// SetOwnReadCursor raises the acknowledged cursor of the local user; lower cursors are ignored.
func (s *Store) SetOwnReadCursor(spaceID string, cursor model.ReadCursor) {
	if spaceID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	if !cursor.After(l.ownCursor) {
		return
	}
	l.ownCursor = cursor
	if s.journal {
		s.changes = append(s.changes, Change{Kind: ChangeReadCursor, SpaceID: spaceID, Cursor: cursor})
	}
}

func (s *Store) OwnReadCursor(spaceID string) model.ReadCursor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.spaces[spaceID]; ok {
		return l.ownCursor
	}
	return model.ReadCursor{}
}

// Messages returns a copy of the space log in display order.
func (s *Store) Messages(spaceID string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok {
		return []model.Message{}
	}
	out := make([]model.Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = m.Clone()
	}
	return out
}

func (s *Store) Message(spaceID, messageID string) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok {
		return model.Message{}, false
	}
	i := l.indexByID(messageID)
	if i < 0 {
		return model.Message{}, false
	}
	return l.messages[i].Clone(), true
}

func (s *Store) Len(spaceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.spaces[spaceID]; ok {
		return len(l.messages)
	}
	return 0
}

func (s *Store) HasMore(spaceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.spaces[spaceID]; ok {
		return l.hasMore
	}
	return false
}

// Newest returns the tail of the log, pending or not.
func (s *Store) Newest(spaceID string) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok || len(l.messages) == 0 {
		return model.Message{}, false
	}
	return l.messages[len(l.messages)-1].Clone(), true
}

// Oldest returns the first confirmed message, the boundary for fetching older history.
func (s *Store) Oldest(spaceID string) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.spaces[spaceID]
	if !ok {
		return model.Message{}, false
	}
	for _, m := range l.messages {
		if !m.IsPending() {
			return m.Clone(), true
		}
	}
	return model.Message{}, false
}

// SpaceIDs lists every space the store holds state for.
func (s *Store) SpaceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.spaces))
	for id := range s.spaces {
		ids = append(ids, id)
	}
	return ids
}
