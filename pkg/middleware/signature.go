package middleware

import (
	"errors"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	// SignatureHeader carries the base64 HMAC-SHA256 of the body, keyed by the channel secret.
	SignatureHeader = "X-Line-Signature"
	// InvalidBodyMessage is the detail returned to the caller for rejected webhooks.
	InvalidBodyMessage = "chatbot handle body error."
)

var errInvalidSignature = errors.New("invalid signature")

// LineSignature rejects requests whose X-Line-Signature does not match the raw body.
func LineSignature(channelSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get(SignatureHeader)
		if signature == "" {
			return richerrors.Error{
				ExternalMsg: InvalidBodyMessage,
				Err:         errors.New("missing signature header"),
				Code:        fiber.StatusBadRequest,
			}
		}
		if !webhook.ValidateSignature(channelSecret, signature, c.Body()) {
			return richerrors.Error{
				ExternalMsg: InvalidBodyMessage,
				Err:         errInvalidSignature,
				Code:        fiber.StatusBadRequest,
			}
		}
		return c.Next()
	}
}
