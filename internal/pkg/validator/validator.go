package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/s21platform/chat-sync/internal/model"
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateSendMessage(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	return nil
}

func (v *Validator) ValidateEditMessage(messageID, content string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("message_id is required")
	}
	if strings.HasPrefix(messageID, model.TempIDPrefix) {
		return fmt.Errorf("message '%s' is not confirmed yet", messageID)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	return nil
}

func (v *Validator) ValidateReaction(messageID, emoji string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("message_id is required")
	}
	if strings.TrimSpace(emoji) == "" {
		return fmt.Errorf("emoji is required")
	}
	return nil
}

func malformed(event, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", model.ErrMalformedEvent, event, fmt.Sprintf(format, args...))
}

func decode(event string, data json.RawMessage, out any) error {
	if len(data) == 0 {
		return malformed(event, "empty payload")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return malformed(event, "failed to decode payload: %v", err)
	}
	return nil
}

// DecodeMessage parses message.created and message.updated payloads.
func (v *Validator) DecodeMessage(event string, data json.RawMessage) (model.Message, error) {
	var p model.MessagePayload
	if err := decode(event, data, &p); err != nil {
		return model.Message{}, err
	}
	if strings.TrimSpace(p.SpaceID) == "" {
		return model.Message{}, malformed(event, "space_id is required")
	}
	if strings.TrimSpace(p.ID) == "" {
		return model.Message{}, malformed(event, "id is required")
	}
	if p.Seq != nil && *p.Seq <= 0 {
		return model.Message{}, malformed(event, "seq must be positive, got %d", *p.Seq)
	}
	return p.ToMessage(), nil
}

func (v *Validator) DecodeMessageDeleted(data json.RawMessage) (model.MessageDeletedPayload, error) {
	var p model.MessageDeletedPayload
	if err := decode(model.EventMessageDeleted, data, &p); err != nil {
		return p, err
	}
	if p.SpaceID == "" || p.ID == "" {
		return p, malformed(model.EventMessageDeleted, "space_id and id are required")
	}
	return p, nil
}

func (v *Validator) DecodeReaction(event string, data json.RawMessage) (model.Reaction, error) {
	var p model.ReactionPayload
	if err := decode(event, data, &p); err != nil {
		return model.Reaction{}, err
	}
	if p.SpaceID == "" || p.MessageID == "" || p.UserID == "" || p.Emoji == "" {
		return model.Reaction{}, malformed(event, "space_id, message_id, user_id and emoji are required")
	}
	return model.Reaction{
		ID:        p.ID,
		SpaceID:   p.SpaceID,
		MessageID: p.MessageID,
		UserID:    p.UserID,
		Emoji:     p.Emoji,
	}, nil
}

func (v *Validator) DecodeSpaceRead(data json.RawMessage) (model.SpaceReadPayload, error) {
	var p model.SpaceReadPayload
	if err := decode(model.EventSpaceRead, data, &p); err != nil {
		return p, err
	}
	if p.SpaceID == "" || p.UserID == "" {
		return p, malformed(model.EventSpaceRead, "space_id and user_id are required")
	}
	if p.LastReadSeq < 0 {
		return p, malformed(model.EventSpaceRead, "last_read_seq must not be negative")
	}
	return p, nil
}

func (v *Validator) DecodeTyping(event string, data json.RawMessage) (model.TypingPayload, error) {
	var p model.TypingPayload
	if err := decode(event, data, &p); err != nil {
		return p, err
	}
	if p.SpaceID == "" || p.UserID == "" {
		return p, malformed(event, "space_id and user_id are required")
	}
	return p, nil
}

func (v *Validator) DecodePresence(data json.RawMessage) (model.PresenceStatus, error) {
	var p model.PresenceStatus
	if err := decode(model.EventPresenceUpdated, data, &p); err != nil {
		return p, err
	}
	if p.UserID == "" {
		return p, malformed(model.EventPresenceUpdated, "user_id is required")
	}
	return p, nil
}

func (v *Validator) DecodeError(data json.RawMessage) model.ErrorPayload {
	var p model.ErrorPayload
	if len(data) == 0 || json.Unmarshal(data, &p) != nil {
		p.Message = string(data)
	}
	return p
}
