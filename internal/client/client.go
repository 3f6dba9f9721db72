// Package client 是房間 API 的 HTTP 客戶端，實作 collab.Backend。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"collab_web/internal/collab"
)

// DefaultTimeout 是單一請求的逾時
const DefaultTimeout = 5 * time.Second

// Client 透過 HTTP 呼叫房間 API
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ collab.Backend = (*Client)(nil)

// Option 設定 Client
type Option func(*Client)

// WithHTTPClient 替換底層的 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout 設定單一請求的逾時，與 WithHTTPClient 的順序無關
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger 設定 logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New 建立 Client，baseURL 指向 API 根路徑，例如 http://localhost:8000/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		// 不修改呼叫端傳入的 http.Client
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	c.logger = c.logger.With("component", "room-client")
	return c
}

type createRoomRequest struct {
	Name string `json:"name"`
}

type roomResponse struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

type messagesResponse struct {
	Messages []collab.Message `json:"messages"`
}

type addMessageRequest struct {
	Content string `json:"content"`
	User    string `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateRoom 建立房間並回傳伺服器配發的 ID
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	var resp roomResponse
	if err := c.do(ctx, "create room", http.MethodPost, "/rooms", "", createRoomRequest{Name: name}, &resp); err != nil {
		return "", err
	}
	if resp.RoomID == "" {
		return "", &collab.NetworkError{Op: "create room", Err: errors.New("response missing room_id")}
	}
	return resp.RoomID, nil
}

// GetRoom 查詢房間，不存在時回傳 *collab.NotFoundError
func (c *Client) GetRoom(ctx context.Context, id string) (*collab.Room, error) {
	var resp roomResponse
	if err := c.do(ctx, "get room", http.MethodGet, "/rooms/"+url.PathEscape(id), id, nil, &resp); err != nil {
		return nil, err
	}
	return &collab.Room{ID: id, Name: resp.Name}, nil
}

// GetMessages 取得房間的完整訊息列表，順序與伺服器相同
func (c *Client) GetMessages(ctx context.Context, roomID string) ([]collab.Message, error) {
	var resp messagesResponse
	path := "/rooms/" + url.PathEscape(roomID) + "/messages"
	if err := c.do(ctx, "get messages", http.MethodGet, path, roomID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// AddMessage 在房間中新增一則訊息
func (c *Client) AddMessage(ctx context.Context, roomID, content, user string) error {
	path := "/rooms/" + url.PathEscape(roomID) + "/messages"
	return c.do(ctx, "add message", http.MethodPost, path, roomID, addMessageRequest{Content: content, User: user}, nil)
}

// Health 檢查 API 是否可用
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", "", nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path, roomID string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "error", err, "duration", duration)
		return &collab.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request done", "op", op, "status", resp.StatusCode, "duration", duration)

	if resp.StatusCode == http.StatusNotFound && roomID != "" {
		return &collab.NotFoundError{RoomID: roomID}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &collab.NetworkError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &collab.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
