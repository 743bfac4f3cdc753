package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UploadHandler handles bulk upload HTTP requests
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /api/v1/uploads. The body is the raw JSON document:
// either a sectioned object or the legacy bare transaction array. Document
// rejections come back as validation problems; row defects come back inside
// a 200 result with per-row details.
func (h *UploadHandler) Upload(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	// Read one byte past the cap so an oversized body is detected without
	// buffering all of it.
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, domain.MaxUploadSize+1))
	if err != nil {
		return NewValidationError(c, "Failed to read request body", nil)
	}

	result, err := h.uploadService.ProcessUpload(c.Request().Context(), userID, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUploadTooLarge),
			errors.Is(err, domain.ErrUploadNotUTF8),
			errors.Is(err, domain.ErrUploadBadJSON),
			errors.Is(err, domain.ErrUploadBadShape),
			errors.Is(err, domain.ErrUploadEmpty):
			return c.JSON(http.StatusBadRequest, domain.UploadResult{
				Success: false,
				Error:   err.Error(),
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Upload failed")
		return c.JSON(http.StatusInternalServerError, domain.UploadResult{
			Success: false,
			Error:   "upload could not be processed",
		})
	}

	return c.JSON(http.StatusOK, result)
}
