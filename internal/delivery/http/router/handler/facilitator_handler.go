package handler

import (
	"log/slog"
	"net/http"

	"medash/internal/delivery/http/response"
	"medash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FacilitatorHandler holds dependencies for the facilitator handlers.
type FacilitatorHandler struct {
	uc     usecase.FacilitatorUsecase
	logger *slog.Logger
}

// NewFacilitatorHandler is the constructor for FacilitatorHandler,
// injected by Fx.
func NewFacilitatorHandler(uc usecase.FacilitatorUsecase, logger *slog.Logger) *FacilitatorHandler {
	return &FacilitatorHandler{
		uc:     uc,
		logger: logger,
	}
}

// MyCohorts lists the cohorts assigned to the signed-in facilitator.
func (h *FacilitatorHandler) MyCohorts(c echo.Context) error {
	result, err := h.uc.MyCohorts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Cohorts retrieved")
}

// Profile returns the signed-in facilitator's profile.
func (h *FacilitatorHandler) Profile(c echo.Context) error {
	result, err := h.uc.Profile(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Profile retrieved")
}

// AttendanceSheet fetches the attendance view for one cohort session or
// date range.
func (h *FacilitatorHandler) AttendanceSheet(c echo.Context) error {
	input := &usecase.AttendanceSheetInput{
		CohortID:  c.QueryParam("cohortId"),
		Date:      c.QueryParam("date"),
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.AttendanceSheet(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Attendance sheet retrieved")
}

// MarkAttendance submits a session's marks for a cohort.
func (h *FacilitatorHandler) MarkAttendance(c echo.Context) error {
	var input *usecase.MarkAttendanceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid attendance input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.MarkAttendance(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Attendance recorded")
}
