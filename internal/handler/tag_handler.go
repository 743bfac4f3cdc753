package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest represents the create/update tag request body
type TagRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	InUseCount  int64   `json:"inUseCount"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		InUseCount:  t.InUseCount,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.CreateTag(c.Request().Context(), userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A tag with this name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create tag")
		return NewInternalError(c, "Failed to create tag")
	}

	return c.JSON(http.StatusCreated, toTagResponse(tag))
}

// GetTags handles GET /api/v1/tags
func (h *TagHandler) GetTags(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	tags, err := h.tagService.GetTags(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list tags")
		return NewInternalError(c, "Failed to list tags")
	}

	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, toTagResponse(tag))
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTag handles PUT /api/v1/tags/:id
func (h *TagHandler) UpdateTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid tag id", nil)
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.UpdateTag(c.Request().Context(), userID, id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrTagNotFound) {
			return NewNotFoundError(c, "Tag not found")
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A tag with this name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update tag")
		return NewInternalError(c, "Failed to update tag")
	}

	return c.JSON(http.StatusOK, toTagResponse(tag))
}

// DeleteTag handles DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid tag id", nil)
	}

	if err := h.tagService.DeleteTag(c.Request().Context(), userID, id); err != nil {
		var inUse *domain.ErrInUse
		if errors.As(err, &inUse) {
			return NewConflictError(c, inUseDetail("tag", inUse.Count))
		}
		if errors.Is(err, domain.ErrTagNotFound) {
			return NewNotFoundError(c, "Tag not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete tag")
		return NewInternalError(c, "Failed to delete tag")
	}

	return c.NoContent(http.StatusNoContent)
}
