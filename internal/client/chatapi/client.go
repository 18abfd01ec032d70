package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/model"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.ChatAPI.BaseURL,
		token:   cfg.Realtime.Token,
		httpClient: &http.Client{
			Timeout: cfg.ChatAPI.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type messagesResponse struct {
	Messages []model.MessagePayload `json:"messages"`
	HasMore  bool                   `json:"has_more"`
}

type spacesResponse struct {
	Spaces []model.Space `json:"spaces"`
}

// FetchMessages returns up to limit messages older than before, or the newest page when before
// is empty. Messages come back oldest first whatever order the server used.
func (c *Client) FetchMessages(ctx context.Context, spaceID, before string, limit int) (model.MessagePage, error) {
	query := url.Values{}
	if before != "" {
		query.Set("before", before)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/chat/spaces/" + url.PathEscape(spaceID) + "/messages"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return model.MessagePage{}, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make(model.MessageList, 0, len(resp.Messages))
	for _, p := range resp.Messages {
		if p.ID == "" {
			continue
		}
		if p.SpaceID == "" {
			p.SpaceID = spaceID
		}
		m := p.ToMessage()
		if m.Seq > 0 {
			m.Delivered = true
		}
		messages = append(messages, m)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if a.Seq > 0 && b.Seq > 0 {
			return a.Seq < b.Seq
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return model.MessagePage{Messages: messages, HasMore: resp.HasMore}, nil
}

func (c *Client) MarkRead(ctx context.Context, spaceID string, cursor model.ReadCursor) error {
	path := "/chat/spaces/" + url.PathEscape(spaceID) + "/read"
	if err := c.do(ctx, http.MethodPost, path, cursor, nil); err != nil {
		return fmt.Errorf("failed to mark space read: %w", err)
	}
	return nil
}

func (c *Client) ListSpaces(ctx context.Context) ([]model.Space, error) {
	var resp spacesResponse
	if err := c.do(ctx, http.MethodGet, "/chat/spaces", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	return resp.Spaces, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
