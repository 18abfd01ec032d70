//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package backfill

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
)

type MessageStore interface {
	HasMore(spaceID string) bool
	Len(spaceID string) int
	Oldest(spaceID string) (model.Message, bool)
	AppendOlderMessages(spaceID string, older []model.Message, hasMore bool)
	MergeLatest(spaceID string, latest []model.Message, hasMore bool)
}

type Session interface {
	ActiveSpaceID() string
}

type ChatAPI interface {
	FetchMessages(ctx context.Context, spaceID, before string, limit int) (model.MessagePage, error)
}

// Dispatcher runs fn on the engine loop.
type Dispatcher interface {
	Dispatch(fn func(ctx context.Context))
}
