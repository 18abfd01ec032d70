//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
)

type Engine interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	OpenSpace(ctx context.Context, spaceID string) error
}

type Sender interface {
	SendMessage(ctx context.Context, spaceID, content string, replyToID *string) (*model.Message, error)
	EditMessage(ctx context.Context, spaceID, messageID, content string) error
	DeleteMessage(ctx context.Context, spaceID, messageID string) error
	AddReaction(ctx context.Context, spaceID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, spaceID, messageID, emoji string) error
	StartTyping(ctx context.Context, spaceID string)
}

type Backfill interface {
	OnScroll(ctx context.Context, spaceID string, offsetFromTop int) bool
	Loading(spaceID string) bool
}

type MessageStore interface {
	Spaces() []model.Space
	SpaceIDs() []string
	UnreadCounts() map[string]int
	Messages(spaceID string) []model.Message
	HasMore(spaceID string) bool
	TypingUsers(spaceID string) []string
}

type Session interface {
	ActiveSpaceID() string
	SetDraft(spaceID, draft string)
	SetReplyTo(spaceID string, messageID *string)
	Compose(spaceID string) session.Compose
}

type Validator interface {
	ValidateSendMessage(content string) error
	ValidateEditMessage(messageID, content string) error
	ValidateReaction(messageID, emoji string) error
}
