// Package saleor is a minimal GraphQL client for the commerce backend. It
// covers the handful of queries and mutations the repair pipeline needs.
package saleor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"repair_portal_backend/platform/logger"
)

const maxErrorBody = 2048

// ErrNotFound is returned when a single-object query resolves to null.
var ErrNotFound = errors.New("saleor: not found")

// GraphQLError is one entry of the top-level "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ResponseError wraps top-level GraphQL errors.
type ResponseError struct {
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "saleor: graphql errors: " + strings.Join(msgs, "; ")
}

// MutationError is one entry of a mutation payload's "errors" list.
type MutationError struct {
	Field   *string `json:"field"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}

// MutationErrors is returned when a mutation reports user errors.
type MutationErrors struct {
	Mutation string
	Errors   []MutationError
}

func (e *MutationErrors) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, me := range e.Errors {
		field := ""
		if me.Field != nil {
			field = *me.Field + ": "
		}
		parts = append(parts, fmt.Sprintf("%s%s (%s)", field, me.Message, me.Code))
	}
	return fmt.Sprintf("saleor: %s rejected: %s", e.Mutation, strings.Join(parts, "; "))
}

// StatusError is returned for non-2xx transport responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("saleor: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to one GraphQL endpoint with an app token.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	channelID  string
	log        *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for endpoint. token may be empty for public queries.
func New(endpoint, token, channelID string, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   strings.TrimSpace(endpoint),
		token:      strings.TrimSpace(token),
		channelID:  channelID,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Do executes one operation and decodes "data" into out.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("saleor: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("saleor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("saleor: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("saleor: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &ResponseError{Errors: envelope.Errors}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("saleor: decode data: %w", err)
	}
	return nil
}
