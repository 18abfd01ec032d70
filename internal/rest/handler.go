package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/model"
)

type Handler struct {
	engine    Engine
	sender    Sender
	backfill  Backfill
	store     MessageStore
	session   Session
	validator Validator
}

func New(
	engine Engine,
	sender Sender,
	backfill Backfill,
	store MessageStore,
	session Session,
	validator Validator,
) *Handler {
	return &Handler{
		engine:    engine,
		sender:    sender,
		backfill:  backfill,
		store:     store,
		session:   session,
		validator: validator,
	}
}

func (h *Handler) GetSpaces(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetSpaces")

	counts := h.store.UnreadCounts()
	directory := h.store.Spaces()

	known := make(map[string]struct{}, len(directory))
	spaces := make([]Space, 0, len(directory))
	for _, space := range directory {
		known[space.ID] = struct{}{}
		spaces = append(spaces, Space{
			Space:       space,
			UnreadCount: counts[space.ID],
		})
	}

	// spaces with local state that the directory has not listed yet
	for _, spaceID := range h.store.SpaceIDs() {
		if _, ok := known[spaceID]; ok {
			continue
		}
		spaces = append(spaces, Space{
			Space:       model.Space{ID: spaceID},
			UnreadCount: counts[spaceID],
		})
	}
	sort.Slice(spaces, func(i, j int) bool { return spaces[i].ID < spaces[j].ID })

	response := GetSpacesResponse{
		Spaces:        spaces,
		ActiveSpaceID: h.session.ActiveSpaceID(),
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) GetUnread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetUnread")

	h.writeJSON(w, GetUnreadResponse{Unread: h.store.UnreadCounts()}, http.StatusOK)
}

func (h *Handler) OpenSpace(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("OpenSpace")

	spaceID := chi.URLParam(r, "space_id")

	if err := h.engine.OpenSpace(r.Context(), spaceID); err != nil {
		logger.Error(fmt.Sprintf("failed to open space %s: %v", spaceID, err))
		h.writeError(w, fmt.Sprintf("failed to open space: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("opened space %s", spaceID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetMessages")

	spaceID := chi.URLParam(r, "space_id")

	messages := h.store.Messages(spaceID)
	if messages == nil {
		messages = []model.Message{}
	}
	typing := h.store.TypingUsers(spaceID)
	if typing == nil {
		typing = []string{}
	}

	response := GetMessagesResponse{
		Messages:    messages,
		HasMore:     h.store.HasMore(spaceID),
		Loading:     h.backfill.Loading(spaceID),
		TypingUsers: typing,
		Compose:     h.session.Compose(spaceID),
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	spaceID := chi.URLParam(r, "space_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateSendMessage(req.Content); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	replyToID := req.ReplyToID
	if replyToID == nil {
		replyToID = h.session.Compose(spaceID).ReplyToID
	}

	var message *model.Message
	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		var err error
		message, err = h.sender.SendMessage(ctx, spaceID, req.Content, replyToID)
		return err
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to send message: %v", err))
		h.writeError(w, fmt.Sprintf("failed to send message: %v", err), statusFor(err))
		return
	}

	if message == nil {
		h.writeError(w, "content is required", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, message, http.StatusOK)
}

func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("EditMessage")

	spaceID := chi.URLParam(r, "space_id")
	messageID := chi.URLParam(r, "message_id")

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateEditMessage(messageID, req.Content); err != nil {
		logger.Error(fmt.Sprintf("edit validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("edit validation failed: %v", err), http.StatusBadRequest)
		return
	}

	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		return h.sender.EditMessage(ctx, spaceID, messageID, req.Content)
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to edit message %s: %v", messageID, err))
		h.writeError(w, fmt.Sprintf("failed to edit message: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("DeleteMessage")

	spaceID := chi.URLParam(r, "space_id")
	messageID := chi.URLParam(r, "message_id")

	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		return h.sender.DeleteMessage(ctx, spaceID, messageID)
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to delete message %s: %v", messageID, err))
		h.writeError(w, fmt.Sprintf("failed to delete message: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("AddReaction")

	spaceID := chi.URLParam(r, "space_id")
	messageID := chi.URLParam(r, "message_id")

	var req AddReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateReaction(messageID, req.Emoji); err != nil {
		logger.Error(fmt.Sprintf("reaction validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("reaction validation failed: %v", err), http.StatusBadRequest)
		return
	}

	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		return h.sender.AddReaction(ctx, spaceID, messageID, req.Emoji)
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to add reaction to %s: %v", messageID, err))
		h.writeError(w, fmt.Sprintf("failed to add reaction: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("RemoveReaction")

	spaceID := chi.URLParam(r, "space_id")
	messageID := chi.URLParam(r, "message_id")

	emoji, err := url.PathUnescape(chi.URLParam(r, "emoji"))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to unescape emoji: %v", err))
		h.writeError(w, "invalid emoji", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateReaction(messageID, emoji); err != nil {
		logger.Error(fmt.Sprintf("reaction validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("reaction validation failed: %v", err), http.StatusBadRequest)
		return
	}

	err = h.engine.Do(r.Context(), func(ctx context.Context) error {
		return h.sender.RemoveReaction(ctx, spaceID, messageID, emoji)
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to remove reaction from %s: %v", messageID, err))
		h.writeError(w, fmt.Sprintf("failed to remove reaction: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) PutCompose(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("PutCompose")

	spaceID := chi.URLParam(r, "space_id")

	var req PutComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		h.session.SetDraft(spaceID, req.Draft)
		h.session.SetReplyTo(spaceID, req.ReplyToID)
		return nil
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to update compose state: %v", err))
		h.writeError(w, fmt.Sprintf("failed to update compose state: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StartTyping(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StartTyping")

	spaceID := chi.URLParam(r, "space_id")

	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		h.sender.StartTyping(ctx, spaceID)
		return nil
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to signal typing: %v", err))
		h.writeError(w, fmt.Sprintf("failed to signal typing: %v", err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Scroll(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("Scroll")

	spaceID := chi.URLParam(r, "space_id")

	var req ScrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var loading bool
	err := h.engine.Do(r.Context(), func(ctx context.Context) error {
		loading = h.backfill.OnScroll(ctx, spaceID, req.OffsetFromTop) || h.backfill.Loading(spaceID)
		return nil
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to handle scroll: %v", err))
		h.writeError(w, fmt.Sprintf("failed to handle scroll: %v", err), statusFor(err))
		return
	}

	h.writeJSON(w, ScrollResponse{Loading: loading}, http.StatusAccepted)
}

// ----------------------------- helpers -----------------------------

func statusFor(err error) int {
	if errors.Is(err, model.ErrNotConnected) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Error{Error: message})
}
