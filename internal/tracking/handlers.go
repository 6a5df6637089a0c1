package tracking

import (
	"errors"

	"backend-carbonwallet/internal/emission"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req Setup
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		session, resumed, err := svc.Start(c.Context(), userIDFrom(c), req)
		if err != nil {
			return mapError(err)
		}
		status := fiber.StatusCreated
		if resumed {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{"session": session, "resumed": resumed})
	})

	r.Get("/sessions/active", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.Active(c.Context(), userIDFrom(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if session == nil {
			return fiber.NewError(fiber.StatusNotFound, "no active session")
		}
		return c.JSON(session)
	})

	r.Get("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.Get(c.Context(), userIDFrom(c), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/samples", authMiddleware, func(c *fiber.Ctx) error {
		var req Sample
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
			return fiber.NewError(fiber.StatusBadRequest, "coordinates out of range")
		}
		session, err := svc.Sample(c.Context(), userIDFrom(c), c.Params("id"), req)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.Pause(c.Context(), userIDFrom(c), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.Resume(c.Context(), userIDFrom(c), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		session, record, err := svc.Stop(c.Context(), userIDFrom(c), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"session": session, "record": record})
	})

	r.Post("/sessions/:id/errors", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Message string `json:"message"`
		}
		if err := c.BodyParser(&req); err != nil || req.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "message required")
		}
		if _, err := svc.Get(c.Context(), userIDFrom(c), c.Params("id")); err != nil {
			return mapError(err)
		}
		svc.ReportSourceError(c.Context(), c.Params("id"), req.Message)
		return c.SendStatus(fiber.StatusAccepted)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, emission.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func userIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
