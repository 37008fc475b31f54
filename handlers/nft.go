package handlers

import (
	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupNFTRoutes registers the pet-record endpoints. The owner listing goes
// through the reconciler so chain ownership is enforced on every read.
func SetupNFTRoutes(app *fiber.App, pets *services.PetService, energy *services.EnergyService, reconciler *services.ReconcileService) {
	app.Post("/api/nft/save", func(c *fiber.Ctx) error {
		var in services.SaveInput
		if err := c.BodyParser(&in); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		pet, err := pets.Save(in)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, pet)
	})

	app.Get("/api/nft/owner/:owner", func(c *fiber.Ctx) error {
		visible, err := reconciler.PetsForWallet(c.Context(), c.Params("owner"))
		if err != nil {
			return fail(c, err)
		}
		return ok(c, visible)
	})

	app.Get("/api/nft/:tokenId", func(c *fiber.Ctx) error {
		pet, err := pets.GetByTokenID(c.Params("tokenId"))
		if err != nil {
			return fail(c, err)
		}
		return ok(c, pet)
	})

	app.Patch("/api/nft/:tokenId", func(c *fiber.Ctx) error {
		var in services.UpdateInput
		if err := c.BodyParser(&in); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		pet, err := pets.Update(c.Params("tokenId"), in)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, pet)
	})

	app.Delete("/api/nft/:tokenId", func(c *fiber.Ctx) error {
		if err := pets.Delete(c.Params("tokenId")); err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{"tokenId": c.Params("tokenId")})
	})

	app.Post("/api/nft/:tokenId/spend-energy", func(c *fiber.Ctx) error {
		var body struct {
			EnergyCost int `json:"energyCost"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		result, err := energy.SpendEnergy(c.Params("tokenId"), body.EnergyCost)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, result)
	})
}
