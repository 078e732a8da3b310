package serverutils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the wire shape of every error body.
func ErrorResponse(message string) fiber.Map {
	return fiber.Map{"error": message}
}
