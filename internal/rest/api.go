package rest

import (
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
)

type Error struct {
	Error string `json:"error"`
}

type Space struct {
	model.Space
	UnreadCount int `json:"unread_count"`
}

type GetSpacesResponse struct {
	Spaces        []Space `json:"spaces"`
	ActiveSpaceID string  `json:"active_space_id,omitempty"`
}

type GetUnreadResponse struct {
	Unread map[string]int `json:"unread"`
}

type GetMessagesResponse struct {
	Messages    []model.Message `json:"messages"`
	HasMore     bool            `json:"has_more"`
	Loading     bool            `json:"loading"`
	TypingUsers []string        `json:"typing_users"`
	Compose     session.Compose `json:"compose"`
}

type SendMessageRequest struct {
	Content   string  `json:"content"`
	ReplyToID *string `json:"reply_to_id,omitempty"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji"`
}

type PutComposeRequest struct {
	Draft     string  `json:"draft"`
	ReplyToID *string `json:"reply_to_id,omitempty"`
}

type ScrollRequest struct {
	OffsetFromTop int `json:"offset_from_top"`
}

type ScrollResponse struct {
	Loading bool `json:"loading"`
}
