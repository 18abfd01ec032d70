//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package readcursor

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
)

type MessageStore interface {
	Newest(spaceID string) (model.Message, bool)
	OwnReadCursor(spaceID string) model.ReadCursor
	ResetUnreadCount(spaceID string)
	SetOwnReadCursor(spaceID string, cursor model.ReadCursor)
}

type Session interface {
	CurrentUserID() string
	ActiveSpaceID() string
}

type ChatAPI interface {
	MarkRead(ctx context.Context, spaceID string, cursor model.ReadCursor) error
}

type Channel interface {
	Connected() bool
	Emit(ctx context.Context, event string, data any) error
}

// Dispatcher runs fn on the engine loop.
type Dispatcher interface {
	Dispatch(fn func(ctx context.Context))
}
