package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/rs/zerolog"
)

const (
	// ChatMessagesPath is the Dify endpoint for chat app queries, relative to the base URL.
	ChatMessagesPath = "/chat-messages"

	// Default timeout for Dify requests
	defaultTimeout = 60 * time.Second
	// Maximum response body size to read for error logging
	maxErrorBodySize = 1024
)

// Config holds the Dify client settings.
type Config struct {
	BaseURL string
	APIKey  string
	// Inputs are sent with every query in addition to sys.query and context.
	Inputs map[string]string
	// NoAnswerText is returned by Ask when the response has no answer.
	NoAnswerText string
	// FailureText is returned by Ask when the request fails.
	FailureText string
	Timeout     time.Duration
	// OmitUser leaves the user field out of requests, sending only query and inputs.
	OmitUser bool
}

// Client for the Dify chat-messages API.
type Client struct {
	endpoint   string
	apiKey     string
	inputs     map[string]string
	noAnswer   string
	failure    string
	omitUser   bool
	logger     zerolog.Logger
	httpClient *http.Client
}

// New creates a new Client. If httpClient is nil a client with cfg.Timeout is used.
func New(cfg Config, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Dify base URL: %w", err)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   baseURL.String() + ChatMessagesPath,
		apiKey:     cfg.APIKey,
		inputs:     maps.Clone(cfg.Inputs),
		noAnswer:   cfg.NoAnswerText,
		failure:    cfg.FailureText,
		omitUser:   cfg.OmitUser,
		logger:     logger,
		httpClient: httpClient,
	}, nil
}

// Ask sends query to Dify and returns the text to reply with.
// It never fails: errors are logged and replaced by the failure text.
func (c *Client) Ask(ctx context.Context, query, user string) string {
	resp, err := c.SendChatMessage(ctx, c.NewRequest(query, user))
	if err != nil {
		c.logger.Error().Err(err).Msg("Dify API error")
		return c.failure
	}
	if resp.Answer == nil || *resp.Answer == "" {
		c.logger.Warn().Str("message_id", resp.MessageID).Msg("Dify response has no answer")
		return c.noAnswer
	}
	return *resp.Answer
}

// NewRequest builds the chat-messages payload for a user query.
func (c *Client) NewRequest(query, user string) *ChatMessageRequest {
	inputs := make(map[string]string, len(c.inputs)+2)
	maps.Copy(inputs, c.inputs)
	inputs["sys.query"] = query
	inputs["context"] = ""
	if c.omitUser {
		user = ""
	}
	return &ChatMessageRequest{
		Query:  query,
		Inputs: inputs,
		User:   user,
	}
}

// SendChatMessage posts req to the chat-messages endpoint.
func (c *Client) SendChatMessage(ctx context.Context, req *ChatMessageRequest) (*ChatMessageResponse, error) {
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat message request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to POST chat message: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			return nil, richerrors.Error{
				Code: resp.StatusCode,
				Err:  fmt.Errorf("dify returned status code %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message),
			}
		}
		return nil, richerrors.Error{
			Code: resp.StatusCode,
			Err:  fmt.Errorf("dify returned status code %d: %s", resp.StatusCode, string(body)),
		}
	}

	var out ChatMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode chat message response: %w", err)
	}
	return &out, nil
}
