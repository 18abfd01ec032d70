//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package sender

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
)

type MessageStore interface {
	AddOptimisticMessage(m model.Message)
	DeleteMessage(spaceID, messageID string)
}

type Channel interface {
	Connected() bool
	Emit(ctx context.Context, event string, data any) error
}

type Session interface {
	CurrentUserID() string
	ClearCompose(spaceID string)
}
