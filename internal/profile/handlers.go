package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), userIDFrom(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})

	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Profile
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Update(c.Context(), userIDFrom(c), req)
		if errors.Is(err, ErrInvalidProfile) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})
}

func userIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
