package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WalletParam normalizes the :walletAddress path parameter to lowercase and
// rejects values that are not 0x-prefixed 40-hex-digit addresses. Every key
// lookup downstream assumes the lowercase form.
func WalletParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("walletAddress")
		if raw == "" {
			return c.Next()
		}

		addr := strings.ToLower(raw)
		if !validAddress(addr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid wallet address format",
			})
		}

		c.Locals("walletAddress", addr)
		return c.Next()
	}
}

func validAddress(addr string) bool {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return false
	}
	for _, r := range addr[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

// WalletFromCtx returns the normalized address set by WalletParam, falling
// back to lowercasing the raw param.
func WalletFromCtx(c *fiber.Ctx) string {
	if addr, ok := c.Locals("walletAddress").(string); ok && addr != "" {
		return addr
	}
	return strings.ToLower(c.Params("walletAddress"))
}
