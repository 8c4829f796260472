package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/logging"
	"github.com/google/uuid"
	"github.com/hibiki-works/line-dify-relay/internal/controllers/webhook"
	"github.com/hibiki-works/line-dify-relay/pkg/middleware"
)

// sign returns the X-Line-Signature value for body.
func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func callbackBody(text, userID string) ([]byte, error) {
	return json.Marshal(webhook.CallbackRequest{
		Destination: "Udeadbeefdeadbeefdeadbeefdeadbeef",
		Events: []webhook.CallbackEvent{
			{
				Type:           "message",
				WebhookEventID: uuid.NewString(),
				ReplyToken:     uuid.NewString(),
				Source:         webhook.CallbackSource{Type: "user", UserID: userID},
				Message:        &webhook.CallbackMessage{ID: uuid.NewString(), Type: "text", Text: text},
			},
		},
	})
}

func main() {
	logger := logging.GetAndSetDefaultLogger("webhook-signer")

	url := flag.String("url", "http://localhost:8080/webhook", "relay webhook URL")
	secret := flag.String("secret", os.Getenv("LINE_CHANNEL_SECRET"), "LINE channel secret")
	text := flag.String("text", "hello", "message text")
	userID := flag.String("user", "U00000000000000000000000000000000", "sender user id")
	flag.Parse()

	if *secret == "" {
		logger.Fatal().Msg("channel secret is required, set -secret or LINE_CHANNEL_SECRET")
	}

	body, err := callbackBody(*text, *userID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build callback body")
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SignatureHeader, sign(*secret, body))

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to send webhook")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, _ := io.ReadAll(resp.Body)
	logger.Info().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("Webhook sent.")
}
