package reconciler

import (
	"context"
	"encoding/json"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/model"
)

type handlerFunc func(logger logger_lib.LoggerInterface, event string, data json.RawMessage) error

// Reconciler applies inbound realtime events to the message store.
type Reconciler struct {
	store     MessageStore
	session   Session
	validator Validator
	metrics   *metrics.Metrics

	routes map[string]handlerFunc
}

func New(store MessageStore, session Session, validator Validator, m *metrics.Metrics) *Reconciler {
	r := &Reconciler{
		store:     store,
		session:   session,
		validator: validator,
		metrics:   m,
	}
	r.routes = map[string]handlerFunc{
		model.EventMessageCreated:  r.messageCreated,
		model.EventMessageUpdated:  r.messageUpdated,
		model.EventMessageDeleted:  r.messageDeleted,
		model.EventReactionAdded:   r.reactionChanged,
		model.EventReactionRemoved: r.reactionChanged,
		model.EventSpaceRead:       r.spaceRead,
		model.EventTypingStarted:   r.typingChanged,
		model.EventTypingStopped:   r.typingChanged,
		model.EventPresenceUpdated: r.presenceUpdated,
		model.EventError:           r.serverError,
	}
	return r
}

// Handle applies one envelope. Malformed payloads and handler panics are logged and the
// event is dropped; unknown events are ignored.
func (r *Reconciler) Handle(ctx context.Context, env model.Envelope) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("Handle")

	route, ok := r.routes[env.Event]
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.EventDropped(env.Event)
			logger.Error(fmt.Sprintf("recovered from panic while handling %s: %v", env.Event, rec))
		}
	}()

	if err := route(logger, env.Event, env.Data); err != nil {
		r.metrics.EventDropped(env.Event)
		logger.Error(fmt.Sprintf("dropped %s event: %v", env.Event, err))
		return
	}
	r.metrics.EventApplied(env.Event)
}

func (r *Reconciler) messageCreated(_ logger_lib.LoggerInterface, event string, data json.RawMessage) error {
	m, err := r.validator.DecodeMessage(event, data)
	if err != nil {
		return err
	}

	currentUserID := r.session.CurrentUserID()
	if m.SenderID == currentUserID && m.ClientMessageID != "" {
		r.store.ReplaceOptimisticMessage(m.ClientMessageID, m)
		return nil
	}

	if m.Seq > 0 {
		m.Delivered = true
	}
	added := r.store.AddMessage(m)
	if added && m.SenderID != currentUserID && m.SpaceID != r.session.ActiveSpaceID() {
		r.store.IncrementUnreadCount(m.SpaceID)
	}
	return nil
}

func (r *Reconciler) messageUpdated(_ logger_lib.LoggerInterface, event string, data json.RawMessage) error {
	m, err := r.validator.DecodeMessage(event, data)
	if err != nil {
		return err
	}
	r.store.UpdateMessage(m)
	return nil
}

func (r *Reconciler) messageDeleted(_ logger_lib.LoggerInterface, _ string, data json.RawMessage) error {
	p, err := r.validator.DecodeMessageDeleted(data)
	if err != nil {
		return err
	}
	r.store.DeleteMessage(p.SpaceID, p.ID)
	return nil
}

func (r *Reconciler) reactionChanged(_ logger_lib.LoggerInterface, event string, data json.RawMessage) error {
	reaction, err := r.validator.DecodeReaction(event, data)
	if err != nil {
		return err
	}
	if event == model.EventReactionAdded {
		r.store.AddReaction(reaction)
	} else {
		r.store.RemoveReaction(reaction)
	}
	return nil
}

func (r *Reconciler) spaceRead(_ logger_lib.LoggerInterface, _ string, data json.RawMessage) error {
	p, err := r.validator.DecodeSpaceRead(data)
	if err != nil {
		return err
	}

	currentUserID := r.session.CurrentUserID()
	if p.UserID == currentUserID {
		// read on another device of the same user
		r.store.ResetUnreadCount(p.SpaceID)
		r.store.SetOwnReadCursor(p.SpaceID, model.ReadCursor{
			LastReadMessageID: p.LastReadMessageID,
			LastReadSeq:       p.LastReadSeq,
		})
		return nil
	}
	r.store.MarkMessagesRead(p.SpaceID, p.LastReadSeq, p.UserID, currentUserID)
	return nil
}

func (r *Reconciler) typingChanged(_ logger_lib.LoggerInterface, event string, data json.RawMessage) error {
	p, err := r.validator.DecodeTyping(event, data)
	if err != nil {
		return err
	}
	if p.UserID == r.session.CurrentUserID() {
		return nil
	}
	r.store.SetTyping(p.SpaceID, p.UserID, event == model.EventTypingStarted)
	return nil
}

func (r *Reconciler) presenceUpdated(_ logger_lib.LoggerInterface, _ string, data json.RawMessage) error {
	p, err := r.validator.DecodePresence(data)
	if err != nil {
		return err
	}
	r.store.SetPresence(p.UserID, p.Status)
	return nil
}

func (r *Reconciler) serverError(logger logger_lib.LoggerInterface, _ string, data json.RawMessage) error {
	p := r.validator.DecodeError(data)
	logger.Error(fmt.Sprintf("realtime server error: code=%s message=%s", p.Code, p.Message))
	return nil
}
