package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"semantiapi/internal/apperr"
	"semantiapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that translates known errors into
// {success:false, message} responses. Anything unrecognized becomes a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, message := translate(c, err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request_failed",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return writeError(c, status, message)
	}
}

func translate(c *fiber.Ctx, err error) (int, string) {
	if ae, ok := apperr.As(err); ok {
		return ae.Status, ae.Message
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest, validationMessage(verrs)
	}

	var castErr *apperr.CastError
	if errors.As(err, &castErr) {
		return fiber.StatusBadRequest, castErr.Error()
	}

	if mongo.IsDuplicateKeyError(err) {
		return fiber.StatusConflict, fmt.Sprintf("Duplicate field value: %s. Please use another value", duplicateField(err))
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return fe.Code, "Not Found - " + c.OriginalURL()
		}
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return "Validation error: " + strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func duplicateField(err error) string {
	if m := dupKeyPattern.FindStringSubmatch(err.Error()); len(m) == 2 {
		return m[1]
	}
	return "field"
}
