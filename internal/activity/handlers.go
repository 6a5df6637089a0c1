package activity

import (
	"errors"
	"time"

	"backend-carbonwallet/internal/emission"

	"github.com/gofiber/fiber/v2"
)

var knownTypes = map[emission.ActivityType]bool{
	emission.ActivityExercise:       true,
	emission.ActivityFood:           true,
	emission.ActivityManualTravel:   true,
	emission.ActivityRealtimeTravel: true,
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/exercise", authMiddleware, func(c *fiber.Ctx) error {
		var req emission.ExerciseInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res, err := svc.RecordExercise(c.Context(), userIDFrom(c), req, c.QueryBool("apply"))
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	r.Post("/food", authMiddleware, func(c *fiber.Ctx) error {
		var req emission.FoodInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res, err := svc.RecordFood(c.Context(), userIDFrom(c), req, c.QueryBool("apply"))
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	r.Post("/travel", authMiddleware, func(c *fiber.Ctx) error {
		var req emission.TravelInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res, err := svc.RecordTravel(c.Context(), userIDFrom(c), req, c.QueryBool("apply"))
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		f := Filter{Type: emission.ActivityType(c.Query("type")), Date: c.Query("date")}
		if f.Type != "" && !knownTypes[f.Type] {
			return fiber.NewError(fiber.StatusBadRequest, "unknown activity type")
		}
		if f.Date != "" {
			if _, err := time.Parse(dateLayout, f.Date); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
		}
		records, err := svc.History(c.Context(), userIDFrom(c), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if records == nil {
			records = []Record{}
		}
		return c.JSON(records)
	})

	r.Get("/today", authMiddleware, func(c *fiber.Ctx) error {
		stats, err := svc.Today(c.Context(), userIDFrom(c), time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(stats)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, emission.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoSuggestion):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func userIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
