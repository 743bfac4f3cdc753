package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles aggregate reporting HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// MonthlyTotalResponse is one month/type bucket
type MonthlyTotalResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Type  string `json:"type"`
	Total string `json:"total"`
}

// YearlyTotalResponse is one year/type bucket
type YearlyTotalResponse struct {
	Year  int    `json:"year"`
	Type  string `json:"type"`
	Total string `json:"total"`
}

// MonthlyCategoryTotalResponse is one month/category/type bucket
type MonthlyCategoryTotalResponse struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Category *string `json:"category"`
	Type     string  `json:"type"`
	Total    string  `json:"total"`
}

// YearlyCategoryTotalResponse is one year/category/type bucket
type YearlyCategoryTotalResponse struct {
	Year     int     `json:"year"`
	Category *string `json:"category"`
	Type     string  `json:"type"`
	Total    string  `json:"total"`
}

// TaggedTotalResponse is one type bucket over the tag filter
type TaggedTotalResponse struct {
	Type  string `json:"type"`
	Total string `json:"total"`
}

func parseOptionalInt(c echo.Context, name string) (*int, *ValidationError) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Message: "Must be an integer"}
	}
	return &value, nil
}

func (h *DashboardHandler) writeError(c echo.Context, userID uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrInvalidDate) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Year or month is out of range"},
		})
	}
	log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute totals")
	return NewInternalError(c, "Failed to compute totals")
}

// MonthTotalsResponse is one month's per-type totals
type MonthTotalsResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Spend string `json:"spend"`
	Earn  string `json:"earn"`
	Save  string `json:"save"`
}

// MonthSummaryResponse carries the requested month alongside the previous
// one for month-over-month comparison
type MonthSummaryResponse struct {
	Current  MonthTotalsResponse `json:"current"`
	Previous MonthTotalsResponse `json:"previous"`
}

func monthTotalsResponse(totals service.MonthTotals) MonthTotalsResponse {
	return MonthTotalsResponse{
		Year:  totals.Year,
		Month: totals.Month,
		Spend: totals.Spend.StringFixed(2),
		Earn:  totals.Earn.StringFixed(2),
		Save:  totals.Save.StringFixed(2),
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, vErr := parseOptionalInt(c, "year")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}
	month, vErr := parseOptionalInt(c, "month")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	summary, err := h.dashboardService.GetMonthSummary(c.Request().Context(), userID, year, month)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	return c.JSON(http.StatusOK, MonthSummaryResponse{
		Current:  monthTotalsResponse(summary.Current),
		Previous: monthTotalsResponse(summary.Previous),
	})
}

// GetMonthlyTotals handles GET /api/v1/dashboard/monthly
func (h *DashboardHandler) GetMonthlyTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, vErr := parseOptionalInt(c, "year")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}
	month, vErr := parseOptionalInt(c, "month")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	totals, err := h.dashboardService.GetMonthlyTotals(c.Request().Context(), userID, year, month)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	response := make([]MonthlyTotalResponse, 0, len(totals))
	for _, row := range totals {
		response = append(response, MonthlyTotalResponse{
			Year:  row.Year,
			Month: row.Month,
			Type:  string(row.Type),
			Total: row.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// GetYearlyTotals handles GET /api/v1/dashboard/yearly
func (h *DashboardHandler) GetYearlyTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, vErr := parseOptionalInt(c, "year")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	totals, err := h.dashboardService.GetYearlyTotals(c.Request().Context(), userID, year)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	response := make([]YearlyTotalResponse, 0, len(totals))
	for _, row := range totals {
		response = append(response, YearlyTotalResponse{
			Year:  row.Year,
			Type:  string(row.Type),
			Total: row.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// GetMonthlyCategoryTotals handles GET /api/v1/dashboard/monthly-categories
func (h *DashboardHandler) GetMonthlyCategoryTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, vErr := parseOptionalInt(c, "year")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}
	month, vErr := parseOptionalInt(c, "month")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	totals, err := h.dashboardService.GetMonthlyCategoryTotals(c.Request().Context(), userID, year, month)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	response := make([]MonthlyCategoryTotalResponse, 0, len(totals))
	for _, row := range totals {
		response = append(response, MonthlyCategoryTotalResponse{
			Year:     row.Year,
			Month:    row.Month,
			Category: row.Category,
			Type:     string(row.Type),
			Total:    row.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// GetYearlyCategoryTotals handles GET /api/v1/dashboard/yearly-categories
func (h *DashboardHandler) GetYearlyCategoryTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, vErr := parseOptionalInt(c, "year")
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	totals, err := h.dashboardService.GetYearlyCategoryTotals(c.Request().Context(), userID, year)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	response := make([]YearlyCategoryTotalResponse, 0, len(totals))
	for _, row := range totals {
		response = append(response, YearlyCategoryTotalResponse{
			Year:     row.Year,
			Category: row.Category,
			Type:     string(row.Type),
			Total:    row.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// GetTaggedTotals handles GET /api/v1/dashboard/tagged
func (h *DashboardHandler) GetTaggedTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var tagsAny []string
	if raw := c.QueryParam("tagsAny"); raw != "" {
		tagsAny = splitTags(raw)
	}

	totals, err := h.dashboardService.GetTaggedTotals(c.Request().Context(), userID, tagsAny)
	if err != nil {
		return h.writeError(c, userID, err)
	}

	response := make([]TaggedTotalResponse, 0, len(totals))
	for _, row := range totals {
		response = append(response, TaggedTotalResponse{
			Type:  string(row.Type),
			Total: row.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, response)
}
