package notes

import (
	"context"
	"errors"

	"notehub/cmd/devhub/handlers/handlerutil"
	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/clients/notehub"
	"notehub/internal/logger"
	"notehub/internal/services/notestore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Service defines the interface for notes service
type Service interface {
	Create(ctx context.Context, req notehub.CreateNoteRequest) (*notehub.Note, error)
	List(ctx context.Context, req notestore.ListNotesRequest) (*notehub.ListResponse, error)
	Delete(ctx context.Context, id string) (*notehub.Note, error)
}

// Handlers contains the notes HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new notes handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Create handles note creation
// @Summary Create a new note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notehub.CreateNoteRequest true "Create note request"
// @Success 201 {object} notehub.Note
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req notehub.CreateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	note, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Create", "", notestore.ErrNoteNotFound)
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// List handles notes listing with page-number pagination and search
// @Summary List notes newest first
// @Tags notes
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param perPage query int false "Notes per page (default: 12, max: 100)" minimum(1) maximum(100)
// @Param search query string false "Substring of title or content"
// @Success 200 {object} notehub.ListResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	var req notestore.ListNotesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, notestore.ErrBadRequest) {
			logger.L().Info("rejected list query", "handler", "List", "error", err)
			return httperr.Fail(httperr.ErrBadRequest)
		}
		return handlerutil.HandleServiceError(err, "List", "", notestore.ErrNoteNotFound)
	}

	return c.JSON(resp)
}

// Delete handles note deletion
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notehub.Note
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Delete", notestore.ErrNoteNotFound)
	if err != nil {
		return err
	}

	note, err := h.service.Delete(c.UserContext(), noteID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Delete", noteID, notestore.ErrNoteNotFound)
	}

	return c.JSON(note)
}
