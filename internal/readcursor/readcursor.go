package readcursor

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/model"
)

const defaultDebounce = 500 * time.Millisecond

// Synchronizer acknowledges what the user has seen in the active space. The REST call
// clears the unread counter; the debounced space.read broadcast informs other members.
type Synchronizer struct {
	store      MessageStore
	session    Session
	api        ChatAPI
	channel    Channel
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	debounce   time.Duration

	mu sync.Mutex
	// requested is the highest cursor handed to the REST API per space.
	requested map[string]model.ReadCursor
	// scheduled is the cursor waiting on the broadcast timer per space.
	scheduled map[string]model.ReadCursor
	broadcast map[string]model.ReadCursor
	timers    map[string]*time.Timer
}

func New(store MessageStore, session Session, api ChatAPI, channel Channel, dispatcher Dispatcher, m *metrics.Metrics, debounce time.Duration) *Synchronizer {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Synchronizer{
		store:      store,
		session:    session,
		api:        api,
		channel:    channel,
		dispatcher: dispatcher,
		metrics:    m,
		debounce:   debounce,
		requested:  make(map[string]model.ReadCursor),
		scheduled:  make(map[string]model.ReadCursor),
		broadcast:  make(map[string]model.ReadCursor),
		timers:     make(map[string]*time.Timer),
	}
}

// Evaluate runs on the engine loop after every processed item.
func (s *Synchronizer) Evaluate(ctx context.Context) {
	spaceID := s.session.ActiveSpaceID()
	if spaceID == "" {
		return
	}
	newest, ok := s.store.Newest(spaceID)
	if !ok || !newest.HasSeq() || newest.SenderID == s.session.CurrentUserID() {
		return
	}
	cursor := model.ReadCursor{LastReadMessageID: newest.ID, LastReadSeq: newest.Seq}
	if !cursor.After(s.store.OwnReadCursor(spaceID)) {
		return
	}

	s.markRead(ctx, spaceID, cursor)
	s.scheduleReceipt(ctx, spaceID, cursor)
}

// Forget lets a cursor that failed to reach the API be sent again.
func (s *Synchronizer) Forget(spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.requested, spaceID)
}

// Close stops pending broadcasts.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for spaceID, t := range s.timers {
		t.Stop()
		delete(s.timers, spaceID)
	}
}

func (s *Synchronizer) markRead(ctx context.Context, spaceID string, cursor model.ReadCursor) {
	s.mu.Lock()
	if !cursor.After(s.requested[spaceID]) {
		s.mu.Unlock()
		return
	}
	s.requested[spaceID] = cursor
	s.mu.Unlock()

	go func() {
		err := s.api.MarkRead(ctx, spaceID, cursor)
		s.dispatcher.Dispatch(func(ctx context.Context) {
			s.complete(ctx, spaceID, cursor, err)
		})
	}()
}

func (s *Synchronizer) complete(ctx context.Context, spaceID string, cursor model.ReadCursor, err error) {
	if err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("MarkRead")
		logger.Error(fmt.Sprintf("failed to mark space %s read up to seq %d: %v", spaceID, cursor.LastReadSeq, err))
		s.metrics.RESTFailed("mark_read")
		return
	}
	s.store.ResetUnreadCount(spaceID)
	s.store.SetOwnReadCursor(spaceID, cursor)
}

func (s *Synchronizer) scheduleReceipt(ctx context.Context, spaceID string, cursor model.ReadCursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !cursor.After(s.broadcast[spaceID]) || !cursor.After(s.scheduled[spaceID]) {
		return
	}
	s.scheduled[spaceID] = cursor
	if t, ok := s.timers[spaceID]; ok {
		t.Stop()
	}
	s.timers[spaceID] = time.AfterFunc(s.debounce, func() {
		s.sendReceipt(ctx, spaceID)
	})
}

func (s *Synchronizer) sendReceipt(ctx context.Context, spaceID string) {
	s.mu.Lock()
	cursor, ok := s.scheduled[spaceID]
	delete(s.scheduled, spaceID)
	delete(s.timers, spaceID)
	s.mu.Unlock()

	if !ok || !s.channel.Connected() {
		return
	}
	err := s.channel.Emit(ctx, model.EventSpaceRead, model.SpaceReadRequest{
		SpaceID:           spaceID,
		LastReadMessageID: cursor.LastReadMessageID,
		LastReadSeq:       cursor.LastReadSeq,
	})
	if err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("SendReadReceipt")
		logger.Error(fmt.Sprintf("failed to broadcast read receipt for space %s: %v", spaceID, err))
		s.metrics.Sent(model.EventSpaceRead, "failed")
		return
	}
	s.metrics.Sent(model.EventSpaceRead, "ok")

	s.mu.Lock()
	if cursor.After(s.broadcast[spaceID]) {
		s.broadcast[spaceID] = cursor
	}
	s.mu.Unlock()
}
