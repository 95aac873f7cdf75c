package handlerutil

import (
	"errors"
	"strings"

	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/logger"
	util "notehub/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SubjectKey is the fiber.Locals key holding the token subject.
const SubjectKey = "subject"

func NotFoundError(err error) error {
	return httperr.Fail(httperr.E{
		Status:  fiber.StatusNotFound,
		Message: err.Error(),
	})
}

// GetSubject extracts the authenticated subject from fiber context
func GetSubject(c *fiber.Ctx) (string, error) {
	sub, ok := c.Locals(SubjectKey).(string)
	if !ok || sub == "" {
		logger.L().Error("subject not found in context", "handler", "getSubject", "path", c.Path())
		return "", httperr.Fail(httperr.ErrUnauthorized)
	}
	return sub, nil
}

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	sub, _ := GetSubject(c)

	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "subject", sub, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	return validate(c, req, v, handlerName, sub, "request validation failed")
}

// ParseAndValidateQuery parses query parameters and validates them
func ParseAndValidateQuery(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	sub, _ := GetSubject(c)

	if err := c.QueryParser(req); err != nil {
		logger.L().Warn("failed to parse query params", "handler", handlerName, "subject", sub, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	return validate(c, req, v, handlerName, sub, "query validation failed")
}

func validate(c *fiber.Ctx, req any, v *validator.Validate, handlerName, sub, msg string) error {
	if err := util.ValidateCtx(c.UserContext(), v, req); err != nil {
		logger.L().Warn(msg, "handler", handlerName, "subject", sub, "error", err)
		if fields := util.Messages(err); fields != nil {
			return httperr.InvalidInput(fields)
		}
		return httperr.Fail(httperr.ErrBadRequest)
	}
	return nil
}

// ExtractNoteID extracts the note ID from the URL parameter
func ExtractNoteID(c *fiber.Ctx, handlerName string, notFoundErr error) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		logger.L().Warn("missing note ID parameter", "handler", handlerName, "path", c.Path())
		return "", NotFoundError(notFoundErr)
	}
	return id, nil
}

// HandleServiceError handles common service error responses
func HandleServiceError(err error, handlerName, noteID string, notFoundErr error) error {
	logFields := []any{"handler", handlerName, "error", err}
	if noteID != "" {
		logFields = append(logFields, "noteID", noteID)
	}

	if errors.Is(err, notFoundErr) {
		logger.L().Info("resource not found", logFields...)
		return NotFoundError(notFoundErr)
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.InternalError(err.Error()))
}
