package engine

import (
	"context"
	"errors"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
	"github.com/s21platform/chat-sync/internal/store"
)

var ErrStopped = errors.New("engine stopped")

// Engine is the single writer of the message store. Realtime events, user commands and
// REST completions are queued and each runs to completion before the next one starts.
// After every task the read cursor is evaluated and store changes are mirrored to the cache.
type Engine struct {
	queue   *taskQueue
	done    chan struct{}
	store   *store.Store
	session *session.Session
	channel Channel

	handler    EventHandler
	readCursor ReadCursor
	backfill   Backfill

	cache        CacheRepo
	directory    SpaceDirectory
	metrics      *metrics.Metrics
	hydrateLimit int

	// synced holds spaces whose latest page was requested since the last connect.
	// Only touched on the loop.
	synced map[string]struct{}
}

type Option func(*Engine)

func WithCache(repo CacheRepo, hydrateLimit int) Option {
	return func(e *Engine) {
		e.cache = repo
		e.hydrateLimit = hydrateLimit
	}
}

func WithDirectory(directory SpaceDirectory) Option {
	return func(e *Engine) {
		e.directory = directory
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithQueueSize(size int) Option {
	return func(e *Engine) {
		e.queue = newTaskQueue(size)
	}
}

func New(st *store.Store, sess *session.Session, channel Channel, opts ...Option) *Engine {
	e := &Engine{
		queue:   newTaskQueue(0),
		done:    make(chan struct{}),
		store:   st,
		session: sess,
		channel: channel,
		synced:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wire attaches the components that dispatch back into the engine. It must be called before Run.
func (e *Engine) Wire(handler EventHandler, readCursor ReadCursor, backfill Backfill) {
	e.handler = handler
	e.readCursor = readCursor
	e.backfill = backfill
}

// Run processes tasks until ctx is done or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("Run")
	logger.Info("engine started")

	for {
		task, ok := e.queue.TryDequeue()
		if ok {
			e.process(ctx, task)
			continue
		}

		select {
		case <-ctx.Done():
			e.queue.Close()
			logger.Info("engine stopped: context cancelled")
			return nil
		case <-e.queue.Wait():
			if e.queue.Len() == 0 && e.queue.Closed() {
				logger.Info("engine stopped: queue closed")
				return nil
			}
		}
	}
}

func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) process(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := logger_lib.FromContext(ctx, config.KeyLogger)
			logger.AddFuncName("process")
			logger.Error(fmt.Sprintf("recovered from panic in engine task: %v", rec))
		}
	}()

	task(ctx)
	if e.readCursor != nil {
		e.readCursor.Evaluate(ctx)
	}
	e.persist(ctx)
	e.metrics.SetUnread(e.store.UnreadCounts())
}

// Dispatch queues fn without waiting. Tasks queued after Stop are dropped.
func (e *Engine) Dispatch(fn func(ctx context.Context)) {
	e.queue.Enqueue(fn)
}

// Do runs fn on the loop and waits for its result.
func (e *Engine) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	result := make(chan error, 1)
	if !e.queue.Enqueue(func(ctx context.Context) {
		result <- fn(ctx)
	}) {
		return ErrStopped
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// HandleEnvelope is the realtime client callback.
func (e *Engine) HandleEnvelope(env model.Envelope) {
	e.Dispatch(func(ctx context.Context) {
		switch env.Event {
		case model.EventConnect:
			e.onConnect(ctx)
		case model.EventDisconnect:
			logger := logger_lib.FromContext(ctx, config.KeyLogger)
			logger.AddFuncName("HandleEnvelope")
			logger.Info("realtime channel disconnected")
		default:
			e.handler.Handle(ctx, env)
		}
	})
}

// OpenSpace makes spaceID the active space, joins it on the channel and loads its newest
// page unless that already happened since the last connect.
func (e *Engine) OpenSpace(ctx context.Context, spaceID string) error {
	return e.Do(ctx, func(ctx context.Context) error {
		e.session.SetActiveSpace(spaceID)
		if e.readCursor != nil {
			e.readCursor.Forget(spaceID)
		}
		e.joinSpace(ctx, spaceID)
		e.syncLatest(ctx, spaceID, e.store.Len(spaceID) == 0)
		return nil
	})
}

func (e *Engine) onConnect(ctx context.Context) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("onConnect")
	logger.Info("realtime channel connected")

	e.synced = make(map[string]struct{})
	e.refreshSpaces(ctx)

	spaceID := e.session.ActiveSpaceID()
	if spaceID == "" {
		return
	}
	e.joinSpace(ctx, spaceID)
	e.syncLatest(ctx, spaceID, true)
}

func (e *Engine) joinSpace(ctx context.Context, spaceID string) {
	if !e.channel.Connected() {
		return
	}
	if err := e.channel.Emit(ctx, model.EventJoinSpace, model.SpaceRequest{SpaceID: spaceID}); err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("joinSpace")
		logger.Error(fmt.Sprintf("failed to join space %s: %v", spaceID, err))
		e.metrics.Sent(model.EventJoinSpace, "failed")
		return
	}
	e.metrics.Sent(model.EventJoinSpace, "ok")
}

func (e *Engine) syncLatest(ctx context.Context, spaceID string, force bool) {
	if _, ok := e.synced[spaceID]; ok && !force {
		return
	}
	if e.backfill == nil {
		return
	}
	if e.backfill.LoadLatest(ctx, spaceID) {
		e.synced[spaceID] = struct{}{}
	}
}

func (e *Engine) refreshSpaces(ctx context.Context) {
	if e.directory == nil {
		return
	}
	go func() {
		spaces, err := e.directory.ListSpaces(ctx)
		e.Dispatch(func(ctx context.Context) {
			if err != nil {
				logger := logger_lib.FromContext(ctx, config.KeyLogger)
				logger.AddFuncName("refreshSpaces")
				logger.Error(fmt.Sprintf("failed to list spaces: %v", err))
				e.metrics.RESTFailed("list_spaces")
				return
			}
			e.store.SetSpaces(spaces)
		})
	}()
}

// Hydrate restores cached history and read cursors. It runs before Run, while nothing else
// touches the store.
func (e *Engine) Hydrate(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}

	spaceIDs, err := e.cache.GetSpaceIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to hydrate spaces: %w", err)
	}
	for _, spaceID := range spaceIDs {
		messages, err := e.cache.GetRecentMessages(ctx, spaceID, e.hydrateLimit)
		if err != nil {
			return fmt.Errorf("failed to hydrate space %s: %w", spaceID, err)
		}
		e.store.AppendOlderMessages(spaceID, messages, true)
	}

	cursors, err := e.cache.GetReadCursors(ctx)
	if err != nil {
		return fmt.Errorf("failed to hydrate read cursors: %w", err)
	}
	for spaceID, cursor := range cursors {
		e.store.SetOwnReadCursor(spaceID, cursor)
	}

	// restored state is already in the cache
	e.store.DrainChanges()
	return nil
}

func (e *Engine) persist(ctx context.Context) {
	changes := e.store.DrainChanges()
	if len(changes) == 0 || e.cache == nil {
		return
	}

	var (
		upserts []model.Message
		deletes []string
		cursors = make(map[string]model.ReadCursor)
	)
	for _, ch := range changes {
		switch ch.Kind {
		case store.ChangeUpsert:
			if ch.Message != nil {
				upserts = append(upserts, *ch.Message)
			}
		case store.ChangeDelete:
			deletes = append(deletes, ch.MessageID)
		case store.ChangeReadCursor:
			if ch.Cursor.After(cursors[ch.SpaceID]) {
				cursors[ch.SpaceID] = ch.Cursor
			}
		}
	}

	err := e.cache.WithTx(ctx, func(ctx context.Context) error {
		if err := e.cache.SaveMessages(ctx, upserts); err != nil {
			return err
		}
		if err := e.cache.DeleteMessages(ctx, deletes); err != nil {
			return err
		}
		for spaceID, cursor := range cursors {
			if err := e.cache.SaveReadCursor(ctx, spaceID, cursor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("persist")
		logger.Error(fmt.Sprintf("failed to persist %d changes: %v", len(changes), err))
	}
}
