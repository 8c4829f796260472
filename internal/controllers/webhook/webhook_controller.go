package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiki-works/line-dify-relay/internal/services/relay"
	"github.com/hibiki-works/line-dify-relay/pkg/middleware"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"
)

type Relay interface {
	Process(ctx context.Context, event relay.Event) error
}

// WebhookController receives LINE webhook callbacks and hands their events to the relay.
type WebhookController struct {
	relay  Relay
	logger zerolog.Logger
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(relay Relay, logger zerolog.Logger) *WebhookController {
	return &WebhookController{
		relay:  relay,
		logger: logger,
	}
}

// HandleCallback godoc
// @Summary      Receive LINE webhook events
// @Description  Receives a LINE Messaging API webhook. The X-Line-Signature header must be the base64 HMAC-SHA256 of the body keyed by the channel secret. Text messages are answered through Dify; other events are ignored.
// @Tags         Webhook
// @Accept       json
// @Produce      plain
// @Param        X-Line-Signature  header    string           true  "Request signature"
// @Param        request           body      CallbackRequest  true  "LINE webhook body"
// @Success      200               {string}  string           "OK"
// @Failure      400               "Invalid signature or body"
// @Failure      500               "Reply could not be sent"
// @Router       /webhook [post]
func (w *WebhookController) HandleCallback(c *fiber.Ctx) error {
	var callback webhook.CallbackRequest
	if err := json.Unmarshal(c.Body(), &callback); err != nil {
		return richerrors.Error{
			ExternalMsg: middleware.InvalidBodyMessage,
			Err:         fmt.Errorf("failed to parse webhook body: %w", err),
			Code:        fiber.StatusBadRequest,
		}
	}

	logger := w.logger.With().
		Str("request_id", uuid.NewString()).
		Str("destination", callback.Destination).
		Logger()
	logger.Debug().Int("events", len(callback.Events)).Msg("Webhook received.")

	for _, ev := range callback.Events {
		event := ToRelayEvent(ev)
		if err := w.relay.Process(c.UserContext(), event); err != nil {
			logger.Error().Err(err).Msg("failed to process webhook event")
			return fmt.Errorf("failed to process webhook event: %w", err)
		}
	}

	return c.SendString("OK")
}
