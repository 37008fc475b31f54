package handlers

import (
	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/services"
	"github.com/enyekk7/froth-pet/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupPetRoutes registers feeding and media upload.
func SetupPetRoutes(app *fiber.App, feeder *services.FeedService) {
	app.Post("/api/pet/:tokenId/feed", func(c *fiber.Ctx) error {
		var body struct {
			FoodType      int    `json:"foodType"`
			WalletAddress string `json:"walletAddress"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		result, err := feeder.FeedPet(c.Params("tokenId"), body.FoodType, body.WalletAddress)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, result)
	})

	// Pet image/metadata upload, stored in R2. Returns the public URI the
	// client writes into the mint transaction. Unavailable when R2 is not
	// configured.
	app.Post("/api/pet/media", func(c *fiber.Ctx) error {
		if !utils.R2Enabled() {
			return fail(c, apperrors.Validation("media storage is not configured"))
		}

		file, err := c.FormFile("file")
		if err != nil {
			return fail(c, apperrors.Validation("file is required"))
		}

		src, err := file.Open()
		if err != nil {
			return fail(c, err)
		}
		defer src.Close()

		uri, err := utils.UploadPetMedia(c.Context(), file.Filename, file.Header.Get("Content-Type"), src)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{"uri": uri})
	})
}
