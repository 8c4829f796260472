package main

import (
	"flag"
	"strings"

	"github.com/DIMO-Network/server-garage/pkg/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiki-works/line-dify-relay/internal/clients/dify"
)

// newStubApp answers Dify chat-messages requests by echoing the query and
// accepts LINE reply requests so the relay can run without external services.
func newStubApp(apiKey string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	logger := logging.GetAndSetDefaultLogger("dify-stub")

	app.Post("/v1"+dify.ChatMessagesPath, func(c *fiber.Ctx) error {
		if apiKey != "" && c.Get(fiber.HeaderAuthorization) != "Bearer "+apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(dify.APIError{
				Status:  fiber.StatusUnauthorized,
				Code:    "unauthorized",
				Message: "Access token is invalid",
			})
		}
		var req dify.ChatMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dify.APIError{
				Status:  fiber.StatusBadRequest,
				Code:    "invalid_param",
				Message: "Invalid payload",
			})
		}
		logger.Info().Str("query", req.Query).Str("user", req.User).Interface("inputs", req.Inputs).Msg("Chat message received.")

		answer := "echo: " + strings.TrimSpace(req.Query)
		return c.JSON(dify.ChatMessageResponse{
			MessageID:      uuid.NewString(),
			ConversationID: uuid.NewString(),
			Answer:         &answer,
		})
	})

	app.Post("/v2/bot/message/reply", func(c *fiber.Ctx) error {
		logger.Info().RawJSON("payload", c.Body()).Msg("LINE reply received.")
		return c.JSON(fiber.Map{"sentMessages": []fiber.Map{{"id": uuid.NewString()}}})
	})

	return app
}

func main() {
	logger := logging.GetAndSetDefaultLogger("dify-stub")

	addr := flag.String("addr", ":4001", "listen address")
	apiKey := flag.String("api-key", "", "expected Dify API key, any key is accepted when empty")
	flag.Parse()

	logger.Info().Str("addr", *addr).Msg("Dify stub listening. Use DIFY_BASE_URL=http://localhost" + *addr + "/v1 and LINE_API_ENDPOINT=http://localhost" + *addr)
	if err := newStubApp(*apiKey).Listen(*addr); err != nil {
		logger.Fatal().Err(err).Msg("Stub server failed.")
	}
}
