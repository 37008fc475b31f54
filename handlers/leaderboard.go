package handlers

import (
	"strconv"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/middleware"
	"github.com/enyekk7/froth-pet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeaderboardRoutes registers score submission and the ranked reads.
func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	app.Post("/api/leaderboard/save", func(c *fiber.Ctx) error {
		var in services.SubmitInput
		if err := c.BodyParser(&in); err != nil {
			return fail(c, apperrors.Validation("invalid JSON body"))
		}
		result, err := leaderboard.SubmitScore(in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success":      true,
			"data":         result.Entry,
			"isNewBest":    result.IsNewBest,
			"previousBest": result.PreviousBest,
		})
	})

	app.Get("/api/leaderboard/:gameId", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := leaderboard.GetTopScores(c.Params("gameId"), limit)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, entries)
	})

	app.Get("/api/leaderboard/:gameId/:walletAddress", middleware.WalletParam(), func(c *fiber.Ctx) error {
		entry, err := leaderboard.GetBestScore(c.Params("gameId"), middleware.WalletFromCtx(c))
		if err != nil {
			return fail(c, err)
		}
		if entry == nil {
			return ok(c, nil)
		}
		return ok(c, entry)
	})
}
