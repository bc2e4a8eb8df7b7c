package handler

import (
	"log/slog"
	"net/http"

	"medash/internal/delivery/http/response"
	"medash/internal/domain/entity"
	"medash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MEHandler holds dependencies for the M&E officer handlers.
type MEHandler struct {
	uc     usecase.MEUsecase
	logger *slog.Logger
}

// NewMEHandler is the constructor for MEHandler, injected by Fx.
func NewMEHandler(uc usecase.MEUsecase, logger *slog.Logger) *MEHandler {
	return &MEHandler{
		uc:     uc,
		logger: logger,
	}
}

// OverviewAnalytics returns the headline dashboard numbers.
func (h *MEHandler) OverviewAnalytics(c echo.Context) error {
	result, err := h.uc.OverviewAnalytics(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Overview retrieved")
}

// RetentionTrend returns the weekly enrolled-vs-active series.
func (h *MEHandler) RetentionTrend(c echo.Context) error {
	result, err := h.uc.RetentionTrend(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Retention trend retrieved")
}

// AttendanceSummary returns the program-wide attendance rate.
func (h *MEHandler) AttendanceSummary(c echo.Context) error {
	result, err := h.uc.AttendanceSummary(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Attendance summary retrieved")
}

// TopPerformers returns the top-performers widget rows.
func (h *MEHandler) TopPerformers(c echo.Context) error {
	result, err := h.uc.TopPerformers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Top performers retrieved")
}

// CohortBatches lists all intake groupings.
func (h *MEHandler) CohortBatches(c echo.Context) error {
	result, err := h.uc.CohortBatches(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Cohort batches retrieved")
}

// CreateCohortBatch creates an intake grouping.
func (h *MEHandler) CreateCohortBatch(c echo.Context) error {
	var input *usecase.CreateCohortBatchInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid cohort batch input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.CreateCohortBatch(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Cohort batch created")
}

// UpdateCohortBatchStatus moves a batch through its lifecycle.
func (h *MEHandler) UpdateCohortBatchStatus(c echo.Context) error {
	var input struct {
		Status entity.CohortStatus `json:"status" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid status input")
	}

	result, err := h.uc.UpdateCohortBatchStatus(c.Request().Context(), c.Param("id"), input.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Cohort batch updated")
}

// Cohorts lists all cohorts.
func (h *MEHandler) Cohorts(c echo.Context) error {
	result, err := h.uc.Cohorts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Cohorts retrieved")
}

// CreateCohort schedules a new cohort.
func (h *MEHandler) CreateCohort(c echo.Context) error {
	var input *usecase.CreateCohortInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid cohort input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.CreateCohort(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Cohort created")
}

// UpdateCohortStatus moves a cohort through its lifecycle.
func (h *MEHandler) UpdateCohortStatus(c echo.Context) error {
	var input struct {
		Status entity.CohortStatus `json:"status" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid status input")
	}

	result, err := h.uc.UpdateCohortStatus(c.Request().Context(), c.Param("id"), input.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Cohort updated")
}

// Courses lists courses page by page.
func (h *MEHandler) Courses(c echo.Context) error {
	result, err := h.uc.Courses(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Courses retrieved")
}

// CreateCourse registers a new course.
func (h *MEHandler) CreateCourse(c echo.Context) error {
	var input *usecase.CreateCourseInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid course input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.CreateCourse(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Course created")
}

// UpdateCourse replaces a course's editable fields.
func (h *MEHandler) UpdateCourse(c echo.Context) error {
	var input *usecase.UpdateCourseInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid course input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.UpdateCourse(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Course updated")
}

// DeleteCourse removes a course.
func (h *MEHandler) DeleteCourse(c echo.Context) error {
	if err := h.uc.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Course deleted")
}

// ToggleCourseStatus flips a course between active and inactive.
func (h *MEHandler) ToggleCourseStatus(c echo.Context) error {
	result, err := h.uc.ToggleCourseStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Course status toggled")
}

// Facilitators lists facilitator accounts page by page.
func (h *MEHandler) Facilitators(c echo.Context) error {
	result, err := h.uc.Facilitators(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Facilitators retrieved")
}

// SetFacilitatorCohortBatches replaces a facilitator's batch assignments.
func (h *MEHandler) SetFacilitatorCohortBatches(c echo.Context) error {
	var input struct {
		CohortBatchIDs []string `json:"cohortBatchIds"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid batch assignment input")
	}

	result, err := h.uc.SetFacilitatorCohortBatches(c.Request().Context(), c.Param("id"), input.CohortBatchIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Batch assignments updated")
}

// AssignCourse adds a course to a facilitator's teaching load.
func (h *MEHandler) AssignCourse(c echo.Context) error {
	var input struct {
		CourseID string `json:"courseId" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid course assignment input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.AssignCourseToFacilitator(c.Request().Context(), c.Param("id"), input.CourseID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Course assigned")
}

// RemoveCourse takes a course off a facilitator's teaching load.
func (h *MEHandler) RemoveCourse(c echo.Context) error {
	err := h.uc.RemoveCourseFromFacilitator(c.Request().Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Course removed")
}

// Participants lists participants with optional server-side filters.
func (h *MEHandler) Participants(c echo.Context) error {
	filter := entity.ParticipantFilter{
		CohortID: c.QueryParam("cohortId"),
		BatchID:  c.QueryParam("batchId"),
		Status:   c.QueryParam("status"),
	}

	result, err := h.uc.Participants(c.Request().Context(), pageRequest(c), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Participants retrieved")
}

// ParticipantStats summarizes enrollment across the program.
func (h *MEHandler) ParticipantStats(c echo.Context) error {
	result, err := h.uc.ParticipantStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Participant stats retrieved")
}

// CreateParticipant enrolls a participant into a cohort.
func (h *MEHandler) CreateParticipant(c echo.Context) error {
	var input *usecase.CreateParticipantInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid participant input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.CreateParticipant(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Participant enrolled")
}
