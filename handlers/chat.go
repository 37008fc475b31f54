package handlers

import (
	"strconv"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupChatRoutes registers the global chat feed.
func SetupChatRoutes(app *fiber.App, chat *services.ChatService) {
	app.Get("/api/chat/messages", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		messages, err := chat.Messages(limit)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, messages)
	})

	app.Post("/api/chat/message", func(c *fiber.Ctx) error {
		var body struct {
			Sender        string `json:"sender"`
			Message       string `json:"message"`
			WalletAddress string `json:"walletAddress"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		msg, err := chat.Post(body.Sender, body.Message, body.WalletAddress)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, msg)
	})
}
