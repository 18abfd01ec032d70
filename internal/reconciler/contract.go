package reconciler

import (
	"encoding/json"

	"github.com/s21platform/chat-sync/internal/model"
)

type MessageStore interface {
	ReplaceOptimisticMessage(clientMessageID string, confirmed model.Message)
	AddMessage(m model.Message) bool
	UpdateMessage(m model.Message)
	DeleteMessage(spaceID, messageID string)
	AddReaction(r model.Reaction)
	RemoveReaction(r model.Reaction)
	IncrementUnreadCount(spaceID string)
	ResetUnreadCount(spaceID string)
	SetOwnReadCursor(spaceID string, cursor model.ReadCursor)
	MarkMessagesRead(spaceID string, lastReadSeq int64, readerUserID, currentUserID string)
	SetTyping(spaceID, userID string, typing bool)
	SetPresence(userID, status string)
}

type Session interface {
	CurrentUserID() string
	ActiveSpaceID() string
}

type Validator interface {
	DecodeMessage(event string, data json.RawMessage) (model.Message, error)
	DecodeMessageDeleted(data json.RawMessage) (model.MessageDeletedPayload, error)
	DecodeReaction(event string, data json.RawMessage) (model.Reaction, error)
	DecodeSpaceRead(data json.RawMessage) (model.SpaceReadPayload, error)
	DecodeTyping(event string, data json.RawMessage) (model.TypingPayload, error)
	DecodePresence(data json.RawMessage) (model.PresenceStatus, error)
	DecodeError(data json.RawMessage) model.ErrorPayload
}
