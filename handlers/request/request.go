// Package request parses path, query and body input for the JSON handlers.
// Parse failures are *fiber.Error values with status 400.
package request

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ID reads a positive integer path parameter.
func ID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// OptionalBool reads a boolean query value; nil when the key is absent.
func OptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be true or false")
	}
	return &v, nil
}

// Body decodes the JSON body into out.
func Body(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

// Query decodes the query string into out.
func Query(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query string")
	}
	return nil
}
