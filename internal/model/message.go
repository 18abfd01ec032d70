package model

import (
	"time"
)

const (
	TextContentType = "TEXT"

	TempIDPrefix = "temp-"
)

// MessageState tells a locally sent message waiting for the server apart from one the server accepted.
type MessageState int

const (
	StatePending MessageState = iota + 1
	StateConfirmed
)

func (s MessageState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

func (s MessageState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type MessageList []Message

type Message struct {
	ID              string       `json:"id"`
	ClientMessageID string       `json:"client_message_id,omitempty"`
	SpaceID         string       `json:"space_id"`
	SenderID        string       `json:"sender_id"`
	Content         string       `json:"content"`
	ContentType     string       `json:"content_type"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	EditedAt        *time.Time   `json:"edited_at,omitempty"`
	ParentMessageID *string      `json:"parent_message_id,omitempty"`
	Metadata        *Metadata    `json:"metadata,omitempty"`
	State           MessageState `json:"state"`
	// Seq is zero until the server assigns one.
	Seq       int64      `json:"seq,omitempty"`
	Delivered bool       `json:"delivered"`
	Read      bool       `json:"read"`
	Reactions []Reaction `json:"reactions"`
}

type Metadata struct {
	Mentions []string `json:"mentions,omitempty"`
}

type Reaction struct {
	ID        string `json:"id"`
	SpaceID   string `json:"space_id,omitempty"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

func (m *Message) IsPending() bool {
	return m.State == StatePending
}

func (m *Message) HasSeq() bool {
	return m.State == StateConfirmed && m.Seq > 0
}

// Clone returns a copy that shares no mutable state with m.
func (m Message) Clone() Message {
	if m.EditedAt != nil {
		editedAt := *m.EditedAt
		m.EditedAt = &editedAt
	}
	if m.ParentMessageID != nil {
		parentID := *m.ParentMessageID
		m.ParentMessageID = &parentID
	}
	if m.Metadata != nil {
		metadata := Metadata{Mentions: append([]string(nil), m.Metadata.Mentions...)}
		m.Metadata = &metadata
	}
	if m.Reactions != nil {
		m.Reactions = append(make([]Reaction, 0, len(m.Reactions)), m.Reactions...)
	}
	return m
}

type MessagePage struct {
	Messages MessageList
	HasMore  bool
}
