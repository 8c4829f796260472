package line

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// MaxTextLength is the longest text message LINE accepts, in characters.
const MaxTextLength = 5000

// TokenSource provides the channel access token for API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// invalidator is implemented by token sources that cache tokens.
type invalidator interface {
	Invalidate()
}

// Client sends replies through the LINE Messaging API.
type Client struct {
	endpoint   string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new Client. If httpClient is nil http.DefaultClient is used.
func New(endpoint string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Reply sends text as a single text message using replyToken.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel access token: %w", err)
	}

	api, err := messaging_api.NewMessagingApiAPI(
		token,
		messaging_api.WithEndpoint(c.endpoint),
		messaging_api.WithHTTPClient(c.httpClient),
	)
	if err != nil {
		return fmt.Errorf("failed to create messaging API client: %w", err)
	}

	res, _, err := api.WithContext(ctx).ReplyMessageWithHttpInfo(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: TruncateText(text)},
		},
	})
	if err != nil {
		if res != nil && res.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(invalidator); ok {
				inv.Invalidate()
			}
		}
		return fmt.Errorf("failed to reply message: %w", err)
	}
	return nil
}

// TruncateText cuts text to MaxTextLength characters.
func TruncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextLength {
		return text
	}
	return string(runes[:MaxTextLength])
}
