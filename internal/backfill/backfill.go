package backfill

import (
	"context"
	"fmt"
	"sync"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/model"
)

const (
	// NearTopThreshold is the scroll offset in pixels below which older history is requested.
	NearTopThreshold = 200
	DefaultPageSize  = 50
)

type fetchKind int

const (
	fetchOlder fetchKind = iota
	fetchLatest
)

type fetchKey struct {
	spaceID string
	kind    fetchKind
}

// Controller loads message history pages and merges them on the engine loop.
type Controller struct {
	store      MessageStore
	session    Session
	api        ChatAPI
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	pageSize   int

	mu       sync.Mutex
	inFlight map[fetchKey]struct{}
}

func New(store MessageStore, session Session, api ChatAPI, dispatcher Dispatcher, m *metrics.Metrics, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		store:      store,
		session:    session,
		api:        api,
		dispatcher: dispatcher,
		metrics:    m,
		pageSize:   pageSize,
		inFlight:   make(map[fetchKey]struct{}),
	}
}

// OnScroll requests older history once the viewport gets close to the top.
func (c *Controller) OnScroll(ctx context.Context, spaceID string, offsetFromTop int) bool {
	if offsetFromTop >= NearTopThreshold {
		return false
	}
	return c.LoadOlder(ctx, spaceID)
}

// LoadOlder starts fetching the page before the oldest loaded message. It reports whether a
// fetch was started; at most one runs per space.
func (c *Controller) LoadOlder(ctx context.Context, spaceID string) bool {
	if !c.store.HasMore(spaceID) || c.store.Len(spaceID) == 0 {
		return false
	}
	oldest, ok := c.store.Oldest(spaceID)
	if !ok {
		return false
	}
	key := fetchKey{spaceID: spaceID, kind: fetchOlder}
	if !c.begin(key) {
		return false
	}

	go func() {
		page, err := c.api.FetchMessages(ctx, spaceID, oldest.ID, c.pageSize)
		c.dispatcher.Dispatch(func(ctx context.Context) {
			defer c.end(key)
			c.mergeOlder(ctx, spaceID, oldest.ID, page, err)
		})
	}()
	return true
}

// LoadLatest fetches the newest page and folds it into the held log.
func (c *Controller) LoadLatest(ctx context.Context, spaceID string) bool {
	key := fetchKey{spaceID: spaceID, kind: fetchLatest}
	if !c.begin(key) {
		return false
	}

	go func() {
		page, err := c.api.FetchMessages(ctx, spaceID, "", c.pageSize)
		c.dispatcher.Dispatch(func(ctx context.Context) {
			defer c.end(key)
			c.mergeLatest(ctx, spaceID, page, err)
		})
	}()
	return true
}

// Loading reports whether an older page is being fetched for the space.
func (c *Controller) Loading(spaceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.inFlight[fetchKey{spaceID: spaceID, kind: fetchOlder}]
	return ok
}

func (c *Controller) mergeOlder(ctx context.Context, spaceID, before string, page model.MessagePage, err error) {
	if err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("LoadOlder")
		logger.Error(fmt.Sprintf("failed to fetch messages before %s in space %s: %v", before, spaceID, err))
		c.metrics.RESTFailed("fetch_messages")
		c.metrics.Backfill("failed")
		return
	}
	if c.session.ActiveSpaceID() != spaceID {
		c.metrics.Backfill("stale")
		return
	}
	if oldest, ok := c.store.Oldest(spaceID); !ok || oldest.ID != before {
		c.metrics.Backfill("stale")
		return
	}
	c.store.AppendOlderMessages(spaceID, page.Messages, page.HasMore)
	c.metrics.Backfill("ok")
}

func (c *Controller) mergeLatest(ctx context.Context, spaceID string, page model.MessagePage, err error) {
	if err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("LoadLatest")
		logger.Error(fmt.Sprintf("failed to fetch latest messages in space %s: %v", spaceID, err))
		c.metrics.RESTFailed("fetch_messages")
		return
	}
	c.store.MergeLatest(spaceID, page.Messages, page.HasMore)
}

func (c *Controller) begin(key fetchKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.inFlight[key]; ok {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Controller) end(key fetchKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, key)
}
