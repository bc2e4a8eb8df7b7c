package usecase

import (
	"context"

	"medash/internal/domain/entity"
)

// AttendanceSheetInput narrows the attendance sheet to one cohort and a
// session date or date range.
type AttendanceSheetInput struct {
	CohortID  string `json:"cohortId" validate:"required"`
	Date      string `json:"date"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MarkAttendanceInput submits one session's marks for a cohort.
type MarkAttendanceInput struct {
	CohortID string                    `json:"cohortId" validate:"required"`
	Date     string                    `json:"date" validate:"required"`
	Records  []entity.AttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

// FacilitatorUsecase serves the facilitator surface: assigned cohorts, the
// facilitator profile, and the attendance sheet with its marking flow.
type FacilitatorUsecase interface {
	MyCohorts(ctx context.Context) ([]entity.FacilitatorCohort, error)
	Profile(ctx context.Context) (entity.FacilitatorProfile, error)
	AttendanceSheet(ctx context.Context, input *AttendanceSheetInput) (entity.AttendanceSheet, error)
	MarkAttendance(ctx context.Context, input *MarkAttendanceInput) (entity.MarkAttendanceResult, error)
}
