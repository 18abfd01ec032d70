//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package engine

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
)

type EventHandler interface {
	Handle(ctx context.Context, env model.Envelope)
}

type Channel interface {
	Connected() bool
	Emit(ctx context.Context, event string, data any) error
}

type ReadCursor interface {
	Evaluate(ctx context.Context)
	Forget(spaceID string)
}

type Backfill interface {
	LoadLatest(ctx context.Context, spaceID string) bool
}

type CacheRepo interface {
	SaveMessages(ctx context.Context, messages []model.Message) error
	DeleteMessages(ctx context.Context, ids []string) error
	SaveReadCursor(ctx context.Context, spaceID string, cursor model.ReadCursor) error
	GetSpaceIDs(ctx context.Context) ([]string, error)
	GetRecentMessages(ctx context.Context, spaceID string, limit int) (model.MessageList, error)
	GetReadCursors(ctx context.Context) (map[string]model.ReadCursor, error)

	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

type SpaceDirectory interface {
	ListSpaces(ctx context.Context) ([]model.Space, error)
}
