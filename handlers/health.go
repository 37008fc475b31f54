package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupHealthRoutes registers the API index and health check.
func SetupHealthRoutes(app *fiber.App, db *gorm.DB) {
	index := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "FROTH PET Backend API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":      "/api/health",
				"nft":         "/api/nft",
				"wallet":      "/api/wallet",
				"leaderboard": "/api/leaderboard",
				"bag":         "/api/bag",
				"chat":        "/api/chat",
			},
		})
	}
	app.Get("/", index)
	app.Get("/api", index)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		status := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "disconnected"
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  status,
		})
	})
}
