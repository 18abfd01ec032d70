package store

import (
	"github.com/s21platform/chat-sync/internal/model"
)

func confirmedCopy(m model.Message) model.Message {
	c := m.Clone()
	c.State = model.StateConfirmed
	if c.Reactions == nil {
		c.Reactions = []model.Reaction{}
	}
	return c
}

// mergeConfirmed folds a redelivered copy into the held entry without downgrading flags.
func mergeConfirmed(held, incoming model.Message) model.Message {
	incoming.Delivered = incoming.Delivered || held.Delivered
	incoming.Read = incoming.Read || held.Read
	if incoming.Read {
		incoming.Delivered = true
	}
	if len(incoming.Reactions) == 0 {
		incoming.Reactions = held.Reactions
	}
	if incoming.Seq == 0 {
		incoming.Seq = held.Seq
	}
	if incoming.ClientMessageID == "" {
		incoming.ClientMessageID = held.ClientMessageID
	}
	return incoming
}

// AddOptimisticMessage appends a locally created pending message to the tail of its space.
func (s *Store) AddOptimisticMessage(m model.Message) {
	if m.SpaceID == "" || m.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(m.SpaceID)
	if l.indexByID(m.ID) >= 0 {
		return
	}
	pending := m.Clone()
	pending.State = model.StatePending
	pending.Seq = 0
	if pending.ClientMessageID == "" {
		pending.ClientMessageID = pending.ID
	}
	if pending.Reactions == nil {
		pending.Reactions = []model.Reaction{}
	}
	l.messages = append(l.messages, pending)
}

// ReplaceOptimisticMessage swaps the pending entry carrying clientMessageID for the confirmed
// message at the same position. Without a pending entry the confirmed message is added instead,
// so replaying the same confirmation never produces a duplicate.
func (s *Store) ReplaceOptimisticMessage(clientMessageID string, confirmed model.Message) {
	if confirmed.SpaceID == "" || confirmed.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(confirmed.SpaceID)
	c := confirmedCopy(confirmed)
	if c.ClientMessageID == "" {
		c.ClientMessageID = clientMessageID
	}

	pendingIdx := -1
	if clientMessageID != "" {
		pendingIdx = l.indexPending(clientMessageID)
	}

	if _, deleted := l.tombstones[c.ID]; deleted {
		if pendingIdx >= 0 {
			l.removeAt(pendingIdx)
		}
		return
	}

	heldIdx := l.indexByID(c.ID)
	switch {
	case pendingIdx >= 0:
		if heldIdx >= 0 {
			c = mergeConfirmed(l.messages[heldIdx], c)
		}
		l.applyReceipts(&c)
		l.messages[pendingIdx] = c
		if heldIdx >= 0 {
			l.removeAt(heldIdx)
		}
	case heldIdx >= 0:
		c = mergeConfirmed(l.messages[heldIdx], c)
		l.applyReceipts(&c)
		l.messages[heldIdx] = c
	default:
		l.applyReceipts(&c)
		l.insertAt(l.insertIndex(&c), c)
	}
	s.recordUpsert(c)
}

// AddMessage inserts a confirmed message and reports whether it was new.
// Redelivery of a held or deleted id is a no-op.
func (s *Store) AddMessage(m model.Message) bool {
	if m.SpaceID == "" || m.ID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLocked(s.space(m.SpaceID), m)
}

func (s *Store) addLocked(l *spaceLog, m model.Message) bool {
	if _, deleted := l.tombstones[m.ID]; deleted {
		return false
	}
	if l.indexByID(m.ID) >= 0 {
		return false
	}
	c := confirmedCopy(m)
	l.applyReceipts(&c)
	l.insertAt(l.insertIndex(&c), c)
	s.recordUpsert(c)
	return true
}

// UpdateMessage applies an edit to a held message. Updates older than the held copy are ignored.
func (s *Store) UpdateMessage(m model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.spaces[m.SpaceID]
	if !ok {
		return
	}
	i := l.indexByID(m.ID)
	if i < 0 {
		return
	}
	held := l.messages[i]
	if !m.UpdatedAt.IsZero() && m.UpdatedAt.Before(held.UpdatedAt) {
		return
	}

	held.Content = m.Content
	if m.ContentType != "" {
		held.ContentType = m.ContentType
	}
	if !m.UpdatedAt.IsZero() {
		held.UpdatedAt = m.UpdatedAt
	}
	if m.EditedAt != nil {
		editedAt := *m.EditedAt
		held.EditedAt = &editedAt
	}
	if m.Metadata != nil {
		held.Metadata = m.Clone().Metadata
	}
	if held.Seq == 0 && m.Seq > 0 {
		held.Seq = m.Seq
	}
	held.Delivered = held.Delivered || m.Delivered || m.Read
	held.Read = held.Read || m.Read
	l.messages[i] = held
	s.recordUpsert(held)
}

// DeleteMessage removes a message and remembers its id so a late redelivery cannot bring it back.
func (s *Store) DeleteMessage(spaceID, messageID string) {
	if spaceID == "" || messageID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	l.tombstones[messageID] = struct{}{}
	i := l.indexByID(messageID)
	if i < 0 {
		return
	}
	pending := l.messages[i].IsPending()
	l.removeAt(i)
	if !pending {
		s.recordDelete(spaceID, messageID)
	}
}

// AddReaction is keyed by (user, emoji): adding the same pair twice keeps one row.
func (s *Store) AddReaction(r model.Reaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.spaces[r.SpaceID]
	if !ok {
		return
	}
	i := l.indexByID(r.MessageID)
	if i < 0 {
		return
	}
	for _, held := range l.messages[i].Reactions {
		if held.UserID == r.UserID && held.Emoji == r.Emoji {
			return
		}
	}
	reactions := append([]model.Reaction(nil), l.messages[i].Reactions...)
	l.messages[i].Reactions = append(reactions, r)
	s.recordUpsert(l.messages[i])
}

func (s *Store) RemoveReaction(r model.Reaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.spaces[r.SpaceID]
	if !ok {
		return
	}
	i := l.indexByID(r.MessageID)
	if i < 0 {
		return
	}
	kept := make([]model.Reaction, 0, len(l.messages[i].Reactions))
	for _, held := range l.messages[i].Reactions {
		if held.UserID == r.UserID && held.Emoji == r.Emoji {
			continue
		}
		kept = append(kept, held)
	}
	if len(kept) == len(l.messages[i].Reactions) {
		return
	}
	l.messages[i].Reactions = kept
	s.recordUpsert(l.messages[i])
}

// AppendOlderMessages prepends a page of history, given oldest first, skipping ids already held.
func (s *Store) AppendOlderMessages(spaceID string, older []model.Message, hasMore bool) {
	if spaceID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	l.hasMore = hasMore
	s.prependLocked(l, spaceID, older)
}

func (s *Store) prependLocked(l *spaceLog, spaceID string, older []model.Message) {
	seen := make(map[string]struct{}, len(l.messages)+len(older))
	for _, m := range l.messages {
		seen[m.ID] = struct{}{}
	}
	page := make([]model.Message, 0, len(older))
	for _, m := range older {
		if m.ID == "" || m.SpaceID != spaceID {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		if _, deleted := l.tombstones[m.ID]; deleted {
			continue
		}
		seen[m.ID] = struct{}{}
		c := confirmedCopy(m)
		l.applyReceipts(&c)
		page = append(page, c)
		s.recordUpsert(c)
	}
	if len(page) == 0 {
		return
	}
	l.messages = append(page, l.messages...)
}

// MergeLatest folds the newest page into the log. Own messages close their pending entry,
// the rest go through the same duplicate guard as AddMessage. A page that shares no id with a
// non-empty log while more history exists means a gap wider than a page: the confirmed part of
// the log is replaced by the page and pending entries are kept at the tail.
func (s *Store) MergeLatest(spaceID string, latest []model.Message, hasMore bool) {
	if spaceID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.space(spaceID)
	if len(l.messages) == 0 {
		l.hasMore = hasMore
		s.prependLocked(l, spaceID, latest)
		return
	}

	overlap := false
	for _, m := range latest {
		if l.indexByID(m.ID) >= 0 {
			overlap = true
			break
		}
	}
	if !overlap && hasMore && len(latest) > 0 {
		var pending []model.Message
		for _, m := range l.messages {
			if m.IsPending() {
				pending = append(pending, m)
			}
		}
		l.messages = pending
		l.hasMore = true
		for _, m := range latest {
			if m.ClientMessageID != "" {
				if i := l.indexPending(m.ClientMessageID); i >= 0 {
					l.removeAt(i)
				}
			}
		}
		s.prependLocked(l, spaceID, latest)
		return
	}

	for _, m := range latest {
		if m.ID == "" || m.SpaceID != spaceID {
			continue
		}
		if m.ClientMessageID != "" {
			if i := l.indexPending(m.ClientMessageID); i >= 0 {
				if _, deleted := l.tombstones[m.ID]; deleted {
					l.removeAt(i)
					continue
				}
				if held := l.indexByID(m.ID); held >= 0 {
					l.removeAt(i)
					continue
				}
				c := confirmedCopy(m)
				l.applyReceipts(&c)
				l.messages[i] = c
				s.recordUpsert(c)
				continue
			}
		}
		s.addLocked(l, m)
	}
}
