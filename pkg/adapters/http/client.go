package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// DefaultClientTimeout bounds a single round-trip when no http.Client is supplied.
const DefaultClientTimeout = 30 * time.Second

// StatusError is returned for failures the client cannot map to a domain error.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("topic service returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a remote topic service server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession implements ports.TopicService.
func (c *Client) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	var resp StartSessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions", StartSessionRequest{Topic: topic}, &resp); err != nil {
		return domain.StartResult{}, err
	}
	return domain.StartResult{SessionID: resp.SessionID, Menu: resp.Menu}, nil
}

// SelectItem implements ports.TopicService.
func (c *Client) SelectItem(ctx context.Context, sessionID string, item string) ([]string, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}
	var resp SelectItemResponse
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID)+"/selections", SelectItemRequest{Item: item}, &resp); err != nil {
		return nil, err
	}
	return resp.Menu, nil
}

// Lookup fetches the record of a session.
func (c *Client) Lookup(ctx context.Context, sessionID string) (*domain.Exploration, error) {
	var exp domain.Exploration
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID), nil, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

// End removes a session.
func (c *Client) End(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sessionID), nil, nil)
}

// Sessions lists the IDs of stored sessions.
func (c *Client) Sessions(ctx context.Context) ([]string, error) {
	var resp SessionList
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func sessionPath(sessionID string) string {
	return "/sessions/" + url.PathEscape(sessionID)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("topic service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = domain.ErrSessionNotFound
	case http.StatusBadGateway:
		sentinel = domain.ErrEmptyMenu
	}
	if sentinel != nil {
		return fmt.Errorf("%w (%s)", sentinel, body.Error)
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	for _, known := range []error{domain.ErrEmptyTopic, domain.ErrEmptyItem, domain.ErrMissingSessionID} {
		if strings.Contains(body.Error, known.Error()) {
			return errors.Join(known, statusErr)
		}
	}
	return statusErr
}
