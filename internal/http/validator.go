package http

import (
	"fmt"
	"reflect"
	"strings"

	"chessington/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates the JSON body of game routes,
// leaving the result in Locals for the handler
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	// Determine request type by route
	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games"):
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/moves"):
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo"):
		requestType = &core.UndoRequest{}
	default:
		return c.Next()
	}

	// An empty body validates as the zero request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.CodeInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	// Validate struct tags
	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.CodeInvalidRequest,
			Details: describeValidation(err),
		})
	}

	// Store validated request for handler
	c.Locals("validatedBody", requestType)
	return c.Next()
}

// validatedBody fetches the request stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation bypass detected")
	}
	return *body, nil
}

// describeValidation renders validator errors as one readable line
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, e := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch e.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", e.Field())
		case "min":
			if e.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at least %s characters", e.Field(), e.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at least %s", e.Field(), e.Param())
			}
		case "max":
			if e.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at most %s characters", e.Field(), e.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at most %s", e.Field(), e.Param())
			}
		case "alphanum":
			fmt.Fprintf(&details, "%s must be alphanumeric", e.Field())
		case "email":
			fmt.Fprintf(&details, "%s must be a valid email address", e.Field())
		default:
			fmt.Fprintf(&details, "%s failed %s validation", e.Field(), e.Tag())
		}
	}
	return details.String()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
