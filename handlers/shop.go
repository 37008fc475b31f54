package handlers

import (
	"strings"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/middleware"
	"github.com/enyekk7/froth-pet/models"
	"github.com/enyekk7/froth-pet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupShopRoutes registers the bag and purchase endpoints.
func SetupShopRoutes(app *fiber.App, bags *services.BagService) {
	app.Get("/api/bag/:walletAddress", middleware.WalletParam(), func(c *fiber.Ctx) error {
		bag, err := bags.GetBag(middleware.WalletFromCtx(c))
		if err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{"burger": bag.Burger, "ayam": bag.Ayam})
	})

	// Credits a bag after a confirmed on-chain buyFood transaction. When the
	// client passes txHash, a retried sync is a no-op instead of a double
	// credit.
	app.Post("/api/shop/sync-bag", func(c *fiber.Ctx) error {
		var body struct {
			WalletAddress string `json:"walletAddress"`
			FoodType      int    `json:"foodType"`
			Quantity      int    `json:"quantity"`
			TxHash        string `json:"txHash"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		if body.WalletAddress == "" {
			return fail(c, apperrors.Validation("walletAddress, foodType, and quantity are required"))
		}
		if err := bags.Credit(body.WalletAddress, body.FoodType, body.Quantity, body.TxHash); err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{
			"foodType":      models.FoodName(body.FoodType),
			"quantity":      body.Quantity,
			"walletAddress": strings.ToLower(body.WalletAddress),
		})
	})

	// Legacy off-chain purchase. Deprecated in favor of the blockchain
	// transaction plus sync-bag, kept for old clients.
	app.Post("/api/shop/buy-food", func(c *fiber.Ctx) error {
		var body struct {
			WalletAddress string `json:"walletAddress"`
			FoodType      int    `json:"foodType"`
			Quantity      int    `json:"quantity"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		if body.WalletAddress == "" || body.FoodType == 0 || body.Quantity == 0 {
			return fail(c, apperrors.Validation("walletAddress, foodType, and quantity are required"))
		}
		if err := bags.Credit(body.WalletAddress, body.FoodType, body.Quantity, ""); err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{
			"foodType":      models.FoodName(body.FoodType),
			"quantity":      body.Quantity,
			"totalPrice":    models.FoodPrice[body.FoodType] * body.Quantity,
			"walletAddress": strings.ToLower(body.WalletAddress),
		})
	})
}
