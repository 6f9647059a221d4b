package serverutils

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware catches panics and unhandled errors and renders
// them as `{error: string}`. Stack traces are only echoed outside
// production.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				body := fiber.Map{"error": "Internal server error"}
				if os.Getenv("GO_ENV") != "production" {
					body["details"] = fmt.Sprintf("%v", r)
					body["stack"] = string(debug.Stack())
				}
				_ = ctx.Status(fiber.StatusInternalServerError).JSON(body)
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
