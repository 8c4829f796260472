package channeltoken

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenPath is the channel access token v2.1 issue endpoint.
	TokenPath = "/oauth2/v2.1/token"
	// Audience is the required aud claim of the client assertion.
	Audience = "https://api.line.me/"

	clientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
	// LINE rejects assertions valid for longer than 30 minutes.
	assertionLifetime = 30 * time.Minute
	// MaxTokenLifetime is the longest token_exp LINE accepts.
	MaxTokenLifetime = 30 * 24 * time.Hour

	maxErrorBodySize = 1024
)

// Static is a fixed long-lived channel access token.
type Static string

// Token returns the static token.
func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("channel access token is empty")
	}
	return string(s), nil
}

// IssuedToken is a channel access token returned by the token endpoint.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	KeyID       string `json:"key_id"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Client issues channel access tokens v2.1 using a signed JWT assertion.
type Client struct {
	channelID     string
	keyID         string
	key           *rsa.PrivateKey
	tokenLifetime time.Duration
	endpoint      string
	httpClient    *http.Client
}

// New creates a new Client. assertionKey is the private key in JWK form as generated
// in the LINE Developers console; its kid is sent in the JWT header.
// If httpClient is nil http.DefaultClient is used.
func New(channelID string, assertionKey []byte, tokenLifetime time.Duration, apiEndpoint string, httpClient *http.Client) (*Client, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(assertionKey); err != nil {
		return nil, fmt.Errorf("failed to parse assertion key: %w", err)
	}
	key, ok := jwk.Key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("assertion key must be an RSA private key, got %T", jwk.Key)
	}
	if jwk.KeyID == "" {
		return nil, errors.New("assertion key has no kid")
	}
	endpoint, err := url.Parse(strings.TrimSuffix(apiEndpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse LINE API endpoint: %w", err)
	}
	if tokenLifetime <= 0 || tokenLifetime > MaxTokenLifetime {
		tokenLifetime = MaxTokenLifetime
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		channelID:     channelID,
		keyID:         jwk.KeyID,
		key:           key,
		tokenLifetime: tokenLifetime,
		endpoint:      endpoint.String() + TokenPath,
		httpClient:    httpClient,
	}, nil
}

// Assertion builds a signed client assertion JWT.
func (c *Client) Assertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":       c.channelID,
		"sub":       c.channelID,
		"aud":       Audience,
		"exp":       now.Add(assertionLifetime).Unix(),
		"token_exp": int64(c.tokenLifetime / time.Second),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = c.keyID

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign client assertion: %w", err)
	}
	return signed, nil
}

// Issue requests a new channel access token.
func (c *Client) Issue(ctx context.Context) (*IssuedToken, error) {
	assertion, err := c.Assertion(time.Now())
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"grant_type":            {"client_credentials"},
		"client_assertion_type": {clientAssertionType},
		"client_assertion":      {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, richerrors.Error{
				Code: resp.StatusCode,
				Err:  fmt.Errorf("token endpoint returned %s: %s", errResp.Error, errResp.ErrorDescription),
			}
		}
		return nil, richerrors.Error{
			Code: resp.StatusCode,
			Err:  fmt.Errorf("token endpoint returned status code %d: %s", resp.StatusCode, string(body)),
		}
	}

	var token IssuedToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("token endpoint returned an empty access token")
	}
	return &token, nil
}
