package model

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inbound realtime events.
const (
	EventMessageCreated  = "message.created"
	EventMessageUpdated  = "message.updated"
	EventMessageDeleted  = "message.deleted"
	EventReactionAdded   = "reaction.added"
	EventReactionRemoved = "reaction.removed"
	EventTypingStarted   = "typing.started"
	EventTypingStopped   = "typing.stopped"
	EventPresenceUpdated = "presence.updated"
	EventSpaceRead       = "space.read"
	EventError           = "error"
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
)

// Outbound realtime events.
const (
	EventMessageSend    = "message.send"
	EventMessageEdit    = "message.edit"
	EventMessageDelete  = "message.delete"
	EventReactionAdd    = "reaction.add"
	EventReactionRemove = "reaction.remove"
	EventTypingStart    = "typing.start"
	EventJoinSpace      = "join-space"
)

// Envelope is a single frame on the realtime channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// MessagePayload is the wire shape of a message. Optional fields are pointers so that
// absence can be told apart from zero values while validating.
type MessagePayload struct {
	ID              string     `json:"id"`
	ClientMessageID *string    `json:"client_message_id,omitempty"`
	SpaceID         string     `json:"space_id"`
	SenderID        string     `json:"sender_id"`
	Content         string     `json:"content"`
	ContentType     string     `json:"content_type,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	EditedAt        *time.Time `json:"edited_at,omitempty"`
	ParentMessageID *string    `json:"parent_message_id,omitempty"`
	Metadata        *Metadata  `json:"metadata,omitempty"`
	Seq             *int64     `json:"seq,omitempty"`
	Delivered       bool       `json:"delivered,omitempty"`
	Read            bool       `json:"read,omitempty"`
	Reactions       []Reaction `json:"reactions,omitempty"`
}

// ToMessage converts a server payload into a confirmed message.
func (p MessagePayload) ToMessage() Message {
	m := Message{
		ID:              p.ID,
		SpaceID:         p.SpaceID,
		SenderID:        p.SenderID,
		Content:         p.Content,
		ContentType:     p.ContentType,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		EditedAt:        p.EditedAt,
		ParentMessageID: p.ParentMessageID,
		Metadata:        p.Metadata,
		State:           StateConfirmed,
		Delivered:       p.Delivered || p.Read,
		Read:            p.Read,
		Reactions:       p.Reactions,
	}
	if p.ClientMessageID != nil {
		m.ClientMessageID = *p.ClientMessageID
	}
	if p.Seq != nil {
		m.Seq = *p.Seq
	}
	if m.ContentType == "" {
		m.ContentType = TextContentType
	}
	if m.Reactions == nil {
		m.Reactions = []Reaction{}
	}
	return m
}

type MessageDeletedPayload struct {
	ID      string `json:"id"`
	SpaceID string `json:"space_id"`
}

type ReactionPayload struct {
	ID        string `json:"id"`
	SpaceID   string `json:"space_id"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type SpaceReadPayload struct {
	SpaceID           string `json:"space_id"`
	UserID            string `json:"user_id"`
	LastReadMessageID string `json:"last_read_message_id,omitempty"`
	LastReadSeq       int64  `json:"last_read_seq"`
}

type TypingPayload struct {
	SpaceID string `json:"space_id"`
	UserID  string `json:"user_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Outbound payloads.

type SendMessageRequest struct {
	SpaceID         string    `json:"space_id"`
	ClientMessageID string    `json:"client_message_id"`
	Content         string    `json:"content"`
	ContentType     string    `json:"content_type"`
	ParentMessageID *string   `json:"parent_message_id,omitempty"`
	Metadata        *Metadata `json:"metadata,omitempty"`
}

type EditMessageRequest struct {
	SpaceID   string `json:"space_id"`
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

type DeleteMessageRequest struct {
	SpaceID   string `json:"space_id"`
	MessageID string `json:"message_id"`
}

type ReactionRequest struct {
	SpaceID   string `json:"space_id"`
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type SpaceRequest struct {
	SpaceID string `json:"space_id"`
}

type SpaceReadRequest struct {
	SpaceID           string `json:"space_id"`
	LastReadMessageID string `json:"last_read_message_id"`
	LastReadSeq       int64  `json:"last_read_seq"`
}

type ConnectClaims struct {
	jwt.RegisteredClaims
}
