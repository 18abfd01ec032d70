package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/backfill"
	"github.com/s21platform/chat-sync/internal/client/chatapi"
	"github.com/s21platform/chat-sync/internal/client/realtime"
	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/engine"
	"github.com/s21platform/chat-sync/internal/infra"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/pkg/jwt"
	"github.com/s21platform/chat-sync/internal/pkg/validator"
	"github.com/s21platform/chat-sync/internal/readcursor"
	"github.com/s21platform/chat-sync/internal/reconciler"
	"github.com/s21platform/chat-sync/internal/repository/cache"
	"github.com/s21platform/chat-sync/internal/rest"
	"github.com/s21platform/chat-sync/internal/sender"
	"github.com/s21platform/chat-sync/internal/session"
	"github.com/s21platform/chat-sync/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	claims, err := jwt.New(cfg.Realtime.JWTSecret).ParseConnectToken(cfg.Realtime.Token)
	if err != nil {
		log.Fatalf("failed to read connect token: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.KeyLogger, logger)

	cacheRepo := cache.New(cfg)
	defer cacheRepo.Close()

	if err := cacheRepo.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate cache: %v", err)
	}

	m := metrics.New()
	vldtr := validator.New()
	sess := session.New(claims.Subject)
	messageStore := store.New(store.WithJournal())

	chatClient := chatapi.New(cfg)
	defer chatClient.Close()

	var realtimeOpts []realtime.Option
	if claims.ExpiresAt != nil {
		realtimeOpts = append(realtimeOpts, realtime.WithExpiry(claims.ExpiresAt.Time))
	}
	realtimeClient := realtime.New(cfg, realtimeOpts...)
	defer func() { _ = realtimeClient.Close() }()

	syncEngine := engine.New(messageStore, sess, realtimeClient,
		engine.WithCache(cacheRepo, cfg.Sync.HydrateLimit),
		engine.WithDirectory(chatClient),
		engine.WithMetrics(m),
		engine.WithQueueSize(cfg.Sync.QueueSize),
	)

	readCursor := readcursor.New(messageStore, sess, chatClient, realtimeClient, syncEngine, m, cfg.Sync.ReadReceiptDebounce)
	defer readCursor.Close()

	history := backfill.New(messageStore, sess, chatClient, syncEngine, m, cfg.Sync.PageSize)
	syncEngine.Wire(reconciler.New(messageStore, sess, vldtr, m), readCursor, history)

	msgSender := sender.New(messageStore, realtimeClient, sess,
		sender.WithTypingInterval(cfg.Sync.TypingInterval),
		sender.WithMetrics(m),
	)

	if err := syncEngine.Hydrate(ctx); err != nil {
		logger.Error(fmt.Sprintf("failed to hydrate from cache: %v", err))
	}

	handler := rest.New(syncEngine, msgSender, history, messageStore, sess, vldtr)
	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	rest.HandlerFromMux(handler, router)
	router.Handle("/metrics", m.Handler())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return syncEngine.Run(gCtx)
	})

	g.Go(func() error {
		if err := realtimeClient.Run(gCtx, syncEngine.HandleEnvelope); err != nil {
			return fmt.Errorf("realtime channel error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info(fmt.Sprintf("chat-sync started for user %s on port %s", claims.Subject, cfg.Service.Port))

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
