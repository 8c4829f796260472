package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultNoAnswerReply is sent when the AI service responds without an answer.
	DefaultNoAnswerReply = "すみません、うまく返答できませんでした。"
	// DefaultAIFailureReply is sent when the AI service cannot be reached or fails.
	DefaultAIFailureReply = "Difyとの通信に失敗しました。"
)

// defaultDifyInputs are the prompt-template inputs of the production Dify app.
// They are passed through to Dify untouched.
var defaultDifyInputs = map[string]string{
	"1742898316566.text":  "一般的には〜という見方が多いようです。",
	"17482722005320.text": "OK",
}

// Settings contains the application config
type Settings struct {
	Port        int    `env:"PORT"         envDefault:"8080"`
	MonPort     int    `env:"MON_PORT"     envDefault:"8888"`
	EnablePprof bool   `env:"ENABLE_PPROF"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"line-dify-relay"`

	LineChannelSecret      string        `env:"LINE_CHANNEL_SECRET"       validate:"required"`
	LineChannelAccessToken string        `env:"LINE_CHANNEL_ACCESS_TOKEN" validate:"required_without=LineChannelID"`
	LineChannelID          string        `env:"LINE_CHANNEL_ID"`
	LineAssertionKey       string        `env:"LINE_ASSERTION_KEY"        validate:"required_with=LineChannelID"`
	LineTokenLifetime      time.Duration `env:"LINE_TOKEN_LIFETIME"       envDefault:"720h"                    validate:"min=1m,max=720h"`
	LineAPIEndpoint        string        `env:"LINE_API_ENDPOINT"         envDefault:"https://api.line.me"     validate:"required,url"`

	DifyAPIKey  string        `env:"DIFY_API_KEY"  validate:"required"`
	DifyBaseURL string        `env:"DIFY_BASE_URL" validate:"required,url"`
	DifyInputs  string        `env:"DIFY_INPUTS"`
	DifyTimeout time.Duration `env:"DIFY_TIMEOUT"  envDefault:"60s" validate:"min=1s"`
	// DifyOmitUser stops sending the LINE user id as the Dify user.
	DifyOmitUser bool `env:"DIFY_OMIT_USER"`

	NoAnswerReply  string `env:"REPLY_NO_ANSWER"`
	AIFailureReply string `env:"REPLY_AI_FAILURE"`

	RelayCondition string        `env:"RELAY_CONDITION"`
	DedupeTTL      time.Duration `env:"DEDUPE_TTL"`
}

// Validate checks required fields and value ranges.
func (s *Settings) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if _, err := s.AuxiliaryInputs(); err != nil {
		return err
	}
	return nil
}

// AuxiliaryInputs returns the fixed inputs sent with every Dify query.
// DIFY_INPUTS overrides the defaults when set.
func (s *Settings) AuxiliaryInputs() (map[string]string, error) {
	if s.DifyInputs == "" {
		inputs := make(map[string]string, len(defaultDifyInputs))
		for k, v := range defaultDifyInputs {
			inputs[k] = v
		}
		return inputs, nil
	}
	var inputs map[string]string
	if err := json.Unmarshal([]byte(s.DifyInputs), &inputs); err != nil {
		return nil, fmt.Errorf("DIFY_INPUTS must be a JSON object of strings: %w", err)
	}
	return inputs, nil
}

// NoAnswerText returns the reply used when Dify answers without an answer field.
func (s *Settings) NoAnswerText() string {
	if s.NoAnswerReply != "" {
		return s.NoAnswerReply
	}
	return DefaultNoAnswerReply
}

// AIFailureText returns the reply used when the Dify call fails.
func (s *Settings) AIFailureText() string {
	if s.AIFailureReply != "" {
		return s.AIFailureReply
	}
	return DefaultAIFailureReply
}

// UsesIssuedToken reports whether channel access tokens are issued from a JWT assertion
// instead of the static LINE_CHANNEL_ACCESS_TOKEN.
func (s *Settings) UsesIssuedToken() bool {
	return s.LineChannelID != ""
}
