package app

import (
	"fmt"
	"net/http"

	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/hibiki-works/line-dify-relay/docs" // Import Swagger docs
	"github.com/hibiki-works/line-dify-relay/internal/celcondition"
	"github.com/hibiki-works/line-dify-relay/internal/clients/channeltoken"
	"github.com/hibiki-works/line-dify-relay/internal/clients/dify"
	"github.com/hibiki-works/line-dify-relay/internal/clients/line"
	"github.com/hibiki-works/line-dify-relay/internal/config"
	"github.com/hibiki-works/line-dify-relay/internal/controllers/webhook"
	"github.com/hibiki-works/line-dify-relay/internal/services/eventcache"
	"github.com/hibiki-works/line-dify-relay/internal/services/relay"
	"github.com/hibiki-works/line-dify-relay/pkg/middleware"
	"github.com/rs/zerolog"
)

func CreateServers(settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	relaySvc, err := NewRelay(settings, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay: %w", err)
	}

	app := CreateFiberApp(logger, relaySvc, settings)
	return app, nil
}

// NewRelay builds the relay and its outbound clients from settings.
// httpClient is shared by the Dify, LINE and token clients; when nil each
// client uses its default, with DIFY_TIMEOUT applied to Dify calls.
func NewRelay(settings *config.Settings, httpClient *http.Client, logger zerolog.Logger) (*relay.Relay, error) {
	tokens, err := newTokenSource(settings, httpClient)
	if err != nil {
		return nil, err
	}

	inputs, err := settings.AuxiliaryInputs()
	if err != nil {
		return nil, err
	}
	difyClient, err := dify.New(dify.Config{
		BaseURL:      settings.DifyBaseURL,
		APIKey:       settings.DifyAPIKey,
		Inputs:       inputs,
		NoAnswerText: settings.NoAnswerText(),
		FailureText:  settings.AIFailureText(),
		Timeout:      settings.DifyTimeout,
		OmitUser:     settings.DifyOmitUser,
	}, httpClient, logger.With().Str("component", "dify").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create Dify client: %w", err)
	}

	lineClient := line.New(settings.LineAPIEndpoint, tokens, httpClient)

	var filter relay.Filter
	if settings.RelayCondition != "" {
		cond, err := celcondition.PrepareCondition(settings.RelayCondition)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare relay condition: %w", err)
		}
		filter = cond
		logger.Info().Str("condition", cond.String()).Msg("Relay condition enabled.")
	}

	var seen relay.DeliveryCache
	if settings.DedupeTTL > 0 {
		seen = eventcache.NewDeliveryCache(settings.DedupeTTL)
		logger.Info().Dur("ttl", settings.DedupeTTL).Msg("Redelivery suppression enabled.")
	}

	return relay.NewRelay(difyClient, lineClient, filter, seen, logger.With().Str("component", "relay").Logger()), nil
}

func newTokenSource(settings *config.Settings, httpClient *http.Client) (line.TokenSource, error) {
	if !settings.UsesIssuedToken() {
		return channeltoken.Static(settings.LineChannelAccessToken), nil
	}
	issuer, err := channeltoken.New(settings.LineChannelID, []byte(settings.LineAssertionKey), settings.LineTokenLifetime, settings.LineAPIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel token issuer: %w", err)
	}
	return channeltoken.NewCache(issuer), nil
}

// CreateFiberApp sets up the API routes.
func CreateFiberApp(logger zerolog.Logger, relaySvc webhook.Relay, settings *config.Settings) *fiber.App {
	logger.Info().Msg("Starting LINE Dify relay...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
	})
	app.Use(fibercommon.ContextLoggerMiddleware)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("LINE Dify relay is running.")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	webhookController := webhook.NewWebhookController(relaySvc, logger.With().Str("component", "webhook").Logger())
	logger.Info().Msg("Registering routes...")

	app.Post("/webhook", middleware.LineSignature(settings.LineChannelSecret), webhookController.HandleCallback)

	return app
}
