package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type uploadRequest struct {
	FileName string `json:"file_name"`
	Kind     string `json:"kind"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body uploadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if body.Kind == "" {
			body.Kind = "file"
		}
		obj, err := svc.SaveObject(c.Context(), userIDFrom(c), body.FileName, body.Kind)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(obj)
	})

	r.Post("/profile-photo", authMiddleware, func(c *fiber.Ctx) error {
		var body uploadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		obj, p, err := svc.SetProfilePhoto(c.Context(), userIDFrom(c), body.FileName)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"object": obj, "profile": p})
	})
}

func mapError(err error) error {
	if errors.Is(err, ErrInvalidFileName) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func userIDFrom(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
