package handlers

import (
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/middleware"
	"github.com/enyekk7/froth-pet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupWalletRoutes registers the ownership-cache endpoints.
func SetupWalletRoutes(app *fiber.App, wallets *services.WalletService) {
	app.Post("/api/wallet/sync", func(c *fiber.Ctx) error {
		var body struct {
			WalletAddress string     `json:"walletAddress"`
			HasNFT        bool       `json:"hasNFT"`
			LastChecked   *time.Time `json:"lastChecked"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}

		lastChecked := time.Now()
		if body.LastChecked != nil {
			lastChecked = *body.LastChecked
		}
		wallet, err := wallets.Sync(body.WalletAddress, body.HasNFT, lastChecked)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, wallet)
	})

	app.Get("/api/wallet/:walletAddress", middleware.WalletParam(), func(c *fiber.Ctx) error {
		wallet, err := wallets.Get(middleware.WalletFromCtx(c))
		if err != nil {
			return fail(c, err)
		}
		if wallet == nil {
			return ok(c, nil)
		}
		return ok(c, wallet)
	})
}
