package app

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stylehaus/closet/internal/ai"
	"github.com/stylehaus/closet/pkg/httperror"
)

type RemoveBackgroundRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// NewRemoveBackgroundHandler serves the raw background-removal endpoint:
// fetch the image at the given URL, run it through the gateway, reply with
// the PNG bytes. Registered as a plain fiber handler because the response is
// binary, not JSON.
func NewRemoveBackgroundHandler(fetcher ImageFetcher, remover ai.BackgroundRemover) fiber.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	return func(c *fiber.Ctx) error {
		var req RemoveBackgroundRequest
		if err := c.BodyParser(&req); err != nil {
			return writeHandlerError(c, httperror.BadRequest(
				"remove_background.invalid_input",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := validate.Struct(&req); err != nil {
			return writeHandlerError(c, httperror.BadRequest(
				"remove_background.invalid_input",
				"Image URL is required",
				err.Error(),
			))
		}

		ctx := c.UserContext()

		data, contentType, err := fetcher.Fetch(ctx, req.ImageURL)
		if err != nil {
			zap.L().Warn("Failed to fetch image for background removal",
				zap.String("imageURL", req.ImageURL),
				zap.Error(err),
			)
			return writeHandlerError(c, httperror.BadGateway(
				"remove_background.fetch_failed",
				"Failed to fetch image from URL",
				nil,
			))
		}

		processed, err := remover.RemoveBackground(ctx, data, contentType)
		if err != nil {
			zap.L().Error("Background removal failed",
				zap.String("imageURL", req.ImageURL),
				zap.Error(err),
			)
			if errors.Is(err, ai.ErrGatewayTimeout) {
				return writeHandlerError(c, httperror.GatewayTimeout(
					"remove_background.gateway_timeout",
					"Background removal timed out",
					nil,
				))
			}
			return writeHandlerError(c, httperror.BadGateway(
				"remove_background.gateway_unavailable",
				"Background removal failed",
				nil,
			))
		}

		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(processed)
	}
}

func writeHandlerError(c *fiber.Ctx, err *httperror.Error) error {
	payload := fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	}
	if err.Details != nil {
		payload["details"] = err.Details
	}

	return c.Status(err.Status).JSON(payload)
}
