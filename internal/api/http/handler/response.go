package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
)

const fileTooLargeMessage = "Uploaded file exceeds the maximum allowed size."

// Every JSON response carries a success flag and, on failure, a message.

func ok(c fiber.Ctx, data fiber.Map) error {
	return c.JSON(envelope(true, data))
}

func okMessage(c fiber.Ctx, msg string, data fiber.Map) error {
	body := envelope(true, data)
	body["message"] = msg
	return c.JSON(body)
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadRequest, msg)
}

func validationFailed(c fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  fields,
	})
}

func unauthorized(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusUnauthorized, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusConflict, msg)
}

func methodNotAllowed(c fiber.Ctx, allow string) error {
	c.Set(fiber.HeaderAllow, allow)
	return fail(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}

func internalError(c fiber.Ctx, err error) error {
	slog.ErrorContext(c.Context(), "request failed", "method", c.Method(), "path", c.Path(), "err", err)
	return fail(c, fiber.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
}

// formValues adapts the variadic Ctx.FormValue to a plain field lookup.
func formValues(c fiber.Ctx) func(string) string {
	return func(key string) string { return c.FormValue(key) }
}

func envelope(success bool, data fiber.Map) fiber.Map {
	body := fiber.Map{"success": success}
	for k, v := range data {
		body[k] = v
	}
	return body
}

// ErrorHandler renders errors returned by middleware and unmatched routes in
// the same envelope as handler responses.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		// the body limit trips before the upload is parsed
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			return badRequest(c, fileTooLargeMessage)
		}
		return fail(c, fe.Code, fe.Message)
	}
	return internalError(c, err)
}
