package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// Widget is the set of user actions the HTTP surface drives.
type Widget interface {
	State() widget.State
	Search(ctx context.Context, city string) error
	Locate(ctx context.Context) error
	Retry(ctx context.Context) error
	ToggleUnits() weather.Units
	SetUnits(units weather.Units) error
	Focus(focused bool)
	Interact()
	InputChanged(text string, source widget.InputSource) bool
}

type searchRequest struct {
	City string `json:"city" validate:"required"`
}

type unitsRequest struct {
	Units string `json:"units" validate:"required,oneof=metric imperial"`
}

type inputRequest struct {
	Text    string `json:"text"`
	Focused *bool  `json:"focused"`
}

// RegisterRoutes wires the widget actions into the Fiber app.
func RegisterRoutes(app *fiber.App, w Widget, view *ViewPresenter, log zerolog.Logger) {
	v1 := app.Group("/api/v1")

	respond := func(c *fiber.Ctx, err error) error {
		if err != nil && !errors.Is(err, widget.ErrSuperseded) {
			var ue *weather.UserError
			if !errors.As(err, &ue) {
				return fiber.NewError(fiber.StatusInternalServerError, "request failed")
			}
			log.Debug().Str("kind", string(ue.Kind)).Msg("action ended in error state")
		}
		return c.JSON(view.Snapshot(w.State()))
	}

	v1.Get("/view", func(c *fiber.Ctx) error {
		return c.JSON(view.Snapshot(w.State()))
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		// Query values alias the request buffer, which is reused after the handler returns.
		req := searchRequest{City: utils.CopyString(c.Query("city"))}
		if req.City == "" && len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		req.City = strings.TrimSpace(req.City)
		if err := weather.Validator().Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city is required")
		}

		w.Interact()
		return respond(c, w.Search(c.UserContext(), req.City))
	})

	v1.Post("/locate", func(c *fiber.Ctx) error {
		w.Interact()
		return respond(c, w.Locate(c.UserContext()))
	})

	v1.Post("/retry", func(c *fiber.Ctx) error {
		w.Interact()
		return respond(c, w.Retry(c.UserContext()))
	})

	v1.Post("/units/toggle", func(c *fiber.Ctx) error {
		w.Interact()
		w.ToggleUnits()
		return c.JSON(view.Snapshot(w.State()))
	})

	v1.Put("/units", func(c *fiber.Ctx) error {
		var req unitsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := weather.Validator().Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "units must be metric or imperial")
		}

		w.Interact()
		if err := w.SetUnits(weather.Units(req.Units)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(view.Snapshot(w.State()))
	})

	v1.Post("/input", func(c *fiber.Ctx) error {
		var req inputRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if req.Focused != nil {
			w.Focus(*req.Focused)
		}
		scheduled := w.InputChanged(req.Text, widget.SourceUser)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"scheduled": scheduled})
	})
}
