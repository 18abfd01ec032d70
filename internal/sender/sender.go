package sender

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/metrics"
	"github.com/s21platform/chat-sync/internal/model"
)

const defaultTypingInterval = 3 * time.Second

var mentionPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])@([\p{L}\p{N}_]+)`)

type Controller struct {
	store   MessageStore
	channel Channel
	session Session
	metrics *metrics.Metrics
	now     func() time.Time

	typingInterval time.Duration
	typingMu       sync.Mutex
	typing         map[string]*rate.Limiter
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithTypingInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.typingInterval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func New(store MessageStore, channel Channel, session Session, opts ...Option) *Controller {
	c := &Controller{
		store:          store,
		channel:        channel,
		session:        session,
		now:            time.Now,
		typingInterval: defaultTypingInterval,
		typing:         make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage shows the message locally right away and hands it to the realtime channel.
// Empty content is a no-op and returns a nil message. When the channel is down the local
// entry is rolled back and ErrNotConnected is returned; nothing is retried.
func (c *Controller) SendMessage(ctx context.Context, spaceID, content string, replyToID *string) (*model.Message, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("SendMessage")

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	now := c.now().UTC()
	clientID := NewClientMessageID(now)
	msg := model.Message{
		ID:              clientID,
		ClientMessageID: clientID,
		SpaceID:         spaceID,
		SenderID:        c.session.CurrentUserID(),
		Content:         content,
		ContentType:     model.TextContentType,
		CreatedAt:       now,
		UpdatedAt:       now,
		ParentMessageID: replyToID,
		State:           model.StatePending,
		Reactions:       []model.Reaction{},
	}
	if mentions := ExtractMentions(content); len(mentions) > 0 {
		msg.Metadata = &model.Metadata{Mentions: mentions}
	}

	c.store.AddOptimisticMessage(msg)
	c.session.ClearCompose(spaceID)

	if !c.channel.Connected() {
		c.store.DeleteMessage(spaceID, clientID)
		c.metrics.Sent(model.EventMessageSend, "not_connected")
		logger.Error(fmt.Sprintf("failed to send message to space %s: realtime channel is not connected", spaceID))
		return nil, model.ErrNotConnected
	}

	req := model.SendMessageRequest{
		SpaceID:         spaceID,
		ClientMessageID: clientID,
		Content:         content,
		ContentType:     model.TextContentType,
		ParentMessageID: replyToID,
		Metadata:        msg.Metadata,
	}
	if err := c.channel.Emit(ctx, model.EventMessageSend, req); err != nil {
		c.store.DeleteMessage(spaceID, clientID)
		c.metrics.Sent(model.EventMessageSend, "failed")
		logger.Error(fmt.Sprintf("failed to send message to space %s: %v", spaceID, err))
		return nil, fmt.Errorf("%w: %v", model.ErrNotConnected, err)
	}

	c.metrics.Sent(model.EventMessageSend, "ok")
	return &msg, nil
}

// EditMessage only transmits; the change shows up once message.updated arrives.
func (c *Controller) EditMessage(ctx context.Context, spaceID, messageID, content string) error {
	return c.emit(ctx, "EditMessage", model.EventMessageEdit, model.EditMessageRequest{
		SpaceID:   spaceID,
		MessageID: messageID,
		Content:   content,
	})
}

// DeleteMessage only transmits; the message disappears once message.deleted arrives.
func (c *Controller) DeleteMessage(ctx context.Context, spaceID, messageID string) error {
	return c.emit(ctx, "DeleteMessage", model.EventMessageDelete, model.DeleteMessageRequest{
		SpaceID:   spaceID,
		MessageID: messageID,
	})
}

func (c *Controller) AddReaction(ctx context.Context, spaceID, messageID, emoji string) error {
	return c.emit(ctx, "AddReaction", model.EventReactionAdd, model.ReactionRequest{
		SpaceID:   spaceID,
		MessageID: messageID,
		Emoji:     emoji,
	})
}

func (c *Controller) RemoveReaction(ctx context.Context, spaceID, messageID, emoji string) error {
	return c.emit(ctx, "RemoveReaction", model.EventReactionRemove, model.ReactionRequest{
		SpaceID:   spaceID,
		MessageID: messageID,
		Emoji:     emoji,
	})
}

// StartTyping is best effort: throttled calls and calls while disconnected send nothing.
func (c *Controller) StartTyping(ctx context.Context, spaceID string) {
	if !c.channel.Connected() || !c.typingLimiter(spaceID).Allow() {
		return
	}
	if err := c.channel.Emit(ctx, model.EventTypingStart, model.SpaceRequest{SpaceID: spaceID}); err != nil {
		logger := logger_lib.FromContext(ctx, config.KeyLogger)
		logger.AddFuncName("StartTyping")
		logger.Error(fmt.Sprintf("failed to send typing to space %s: %v", spaceID, err))
	}
}

func (c *Controller) typingLimiter(spaceID string) *rate.Limiter {
	c.typingMu.Lock()
	defer c.typingMu.Unlock()

	l, ok := c.typing[spaceID]
	if !ok {
		l = rate.NewLimiter(rate.Every(c.typingInterval), 1)
		c.typing[spaceID] = l
	}
	return l
}

func (c *Controller) emit(ctx context.Context, funcName, event string, data any) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName(funcName)

	if !c.channel.Connected() {
		c.metrics.Sent(event, "not_connected")
		logger.Error(fmt.Sprintf("failed to send %s: realtime channel is not connected", event))
		return model.ErrNotConnected
	}
	if err := c.channel.Emit(ctx, event, data); err != nil {
		c.metrics.Sent(event, "failed")
		logger.Error(fmt.Sprintf("failed to send %s: %v", event, err))
		return fmt.Errorf("%w: %v", model.ErrNotConnected, err)
	}
	c.metrics.Sent(event, "ok")
	return nil
}

// NewClientMessageID returns a correlation id unique per send attempt.
func NewClientMessageID(now time.Time) string {
	return model.TempIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// ExtractMentions returns @tokens in order of first appearance.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		mentions = append(mentions, m[1])
	}
	return mentions
}
