package usecase

import (
	"context"

	"medash/internal/domain/entity"
)

// CreateCohortBatchInput creates an intake grouping.
type CreateCohortBatchInput struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate"`
}

// CreateCohortInput schedules a new cohort.
type CreateCohortInput struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate"`
}

// CreateCourseInput registers a new course.
type CreateCourseInput struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code"`
	Level string `json:"level"`
}

// UpdateCourseInput replaces a course's editable fields.
type UpdateCourseInput struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"durationWeeks"`
	Level         string `json:"level"`
}

// CreateParticipantInput enrolls a participant into a cohort.
type CreateParticipantInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StudentID string `json:"studentId" validate:"required"`
	CohortID  string `json:"cohortId" validate:"required"`
	Gender    string `json:"gender"`
}

// MEUsecase serves the M&E officer surface: analytics widgets, cohort and
// batch lifecycle, course catalog, facilitator assignments and the
// participant register. Reads go through the query cache; writes patch or
// invalidate what they touch.
type MEUsecase interface {
	OverviewAnalytics(ctx context.Context) (entity.AnalyticsOverview, error)
	RetentionTrend(ctx context.Context) ([]entity.RetentionPoint, error)
	AttendanceSummary(ctx context.Context) (entity.AttendanceSummary, error)
	TopPerformers(ctx context.Context) ([]entity.TopPerformer, error)

	CohortBatches(ctx context.Context) ([]entity.CohortBatch, error)
	CreateCohortBatch(ctx context.Context, input *CreateCohortBatchInput) (entity.CohortBatch, error)
	UpdateCohortBatchStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.CohortBatch, error)

	Cohorts(ctx context.Context) ([]entity.Cohort, error)
	CreateCohort(ctx context.Context, input *CreateCohortInput) (entity.Cohort, error)
	UpdateCohortStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.Cohort, error)

	Courses(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error)
	CreateCourse(ctx context.Context, input *CreateCourseInput) (entity.Course, error)
	UpdateCourse(ctx context.Context, id string, input *UpdateCourseInput) (entity.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ToggleCourseStatus(ctx context.Context, id string) (entity.Course, error)

	Facilitators(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Facilitator], error)
	SetFacilitatorCohortBatches(ctx context.Context, facilitatorID string, batchIDs []string) (entity.Facilitator, error)
	AssignCourseToFacilitator(ctx context.Context, facilitatorID, courseID string) (entity.Facilitator, error)
	RemoveCourseFromFacilitator(ctx context.Context, facilitatorID, courseID string) error

	Participants(ctx context.Context, page entity.PageRequest, filter entity.ParticipantFilter) (entity.Page[entity.Participant], error)
	ParticipantStats(ctx context.Context) (entity.ParticipantStats, error)
	CreateParticipant(ctx context.Context, input *CreateParticipantInput) (entity.Participant, error)
}
