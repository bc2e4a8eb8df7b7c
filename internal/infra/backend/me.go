package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"medash/internal/domain/entity"
)

// MEAPI maps the ME officer endpoint family: analytics, cohort batches,
// cohorts, courses, facilitators and participants.
type MEAPI struct {
	client *Client
}

// NewMEAPI is the constructor for MEAPI.
func NewMEAPI(client *Client) *MEAPI {
	return &MEAPI{client: client}
}

// CreateCohortBatchRequest creates an intake grouping.
type CreateCohortBatchRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// CreateCohortRequest schedules a new cohort.
type CreateCohortRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// CreateCourseRequest registers a new course.
type CreateCourseRequest struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Level string `json:"level,omitempty"`
}

// UpdateCourseRequest replaces a course's editable fields.
type UpdateCourseRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code,omitempty"`
	Description   string `json:"description,omitempty"`
	DurationWeeks int    `json:"durationWeeks,omitempty"`
	Level         string `json:"level,omitempty"`
}

// CreateParticipantRequest enrolls a participant into a cohort.
type CreateParticipantRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	CohortID  string `json:"cohortId"`
	Gender    string `json:"gender,omitempty"`
}

// OverviewAnalytics returns the headline dashboard numbers.
func (m *MEAPI) OverviewAnalytics(ctx context.Context) (entity.AnalyticsOverview, error) {
	var result entity.AnalyticsOverview
	err := m.client.Get(ctx, "/me/analytics/overview", &result)

	return result, err
}

// RetentionTrend returns the weekly enrolled-vs-active series.
func (m *MEAPI) RetentionTrend(ctx context.Context) ([]entity.RetentionPoint, error) {
	var result []entity.RetentionPoint
	err := m.client.Get(ctx, "/me/analytics/retention-trend", &result)

	return result, err
}

// AttendanceSummary returns the program-wide attendance rate.
func (m *MEAPI) AttendanceSummary(ctx context.Context) (entity.AttendanceSummary, error) {
	var result entity.AttendanceSummary
	err := m.client.Get(ctx, "/me/analytics/attendance-summary", &result)

	return result, err
}

// TopPerformers returns the top-performers widget rows.
func (m *MEAPI) TopPerformers(ctx context.Context) ([]entity.TopPerformer, error) {
	var result []entity.TopPerformer
	err := m.client.Get(ctx, "/me/analytics/top-performers", &result)

	return result, err
}

// CohortBatches lists all cohort batches.
func (m *MEAPI) CohortBatches(ctx context.Context) ([]entity.CohortBatch, error) {
	var result []entity.CohortBatch
	err := m.client.Get(ctx, "/me/cohort-batches/list", &result)

	return result, err
}

// CreateCohortBatch creates an intake grouping.
func (m *MEAPI) CreateCohortBatch(ctx context.Context, req CreateCohortBatchRequest) (entity.CohortBatch, error) {
	var result entity.CohortBatch
	err := m.client.Post(ctx, "/me/cohort-batches", req, &result)

	return result, err
}

// UpdateCohortBatchStatus moves a batch through its lifecycle.
func (m *MEAPI) UpdateCohortBatchStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.CohortBatch, error) {
	var result entity.CohortBatch
	body := map[string]entity.CohortStatus{"status": status}
	err := m.client.Patch(ctx, fmt.Sprintf("/me/cohort-batches/%s/status", id), body, &result)

	return result, err
}

// Cohorts lists all cohorts.
func (m *MEAPI) Cohorts(ctx context.Context) ([]entity.Cohort, error) {
	var result []entity.Cohort
	err := m.client.Get(ctx, "/me/cohorts/list", &result)

	return result, err
}

// CreateCohort schedules a new cohort.
func (m *MEAPI) CreateCohort(ctx context.Context, req CreateCohortRequest) (entity.Cohort, error) {
	var result entity.Cohort
	err := m.client.Post(ctx, "/me/cohorts", req, &result)

	return result, err
}

// UpdateCohortStatus moves a cohort through its lifecycle.
func (m *MEAPI) UpdateCohortStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.Cohort, error) {
	var result entity.Cohort
	body := map[string]entity.CohortStatus{"status": status}
	err := m.client.Patch(ctx, fmt.Sprintf("/me/cohorts/%s/status", id), body, &result)

	return result, err
}

// Courses lists courses page by page.
func (m *MEAPI) Courses(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
	q := url.Values{
		"page": {strconv.Itoa(page.Page)},
		"size": {strconv.Itoa(page.Size)},
	}

	var result entity.Page[entity.Course]
	err := m.client.Get(ctx, "/me/courses"+queryString(q), &result)

	return result, err
}

// CreateCourse registers a new course.
func (m *MEAPI) CreateCourse(ctx context.Context, req CreateCourseRequest) (entity.Course, error) {
	var result entity.Course
	err := m.client.Post(ctx, "/me/courses", req, &result)

	return result, err
}

// UpdateCourse replaces a course's editable fields.
func (m *MEAPI) UpdateCourse(ctx context.Context, id string, req UpdateCourseRequest) (entity.Course, error) {
	var result entity.Course
	err := m.client.Put(ctx, fmt.Sprintf("/me/courses/%s", id), req, &result)

	return result, err
}

// DeleteCourse removes a course.
func (m *MEAPI) DeleteCourse(ctx context.Context, id string) error {
	return m.client.Delete(ctx, fmt.Sprintf("/me/courses/%s", id), nil)
}

// ToggleCourseStatus flips a course between active and inactive.
func (m *MEAPI) ToggleCourseStatus(ctx context.Context, id string) (entity.Course, error) {
	var result entity.Course
	err := m.client.Patch(ctx, fmt.Sprintf("/me/courses/%s/toggle-status", id), nil, &result)

	return result, err
}

// Facilitators lists facilitator accounts page by page.
func (m *MEAPI) Facilitators(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Facilitator], error) {
	q := url.Values{
		"page": {strconv.Itoa(page.Page)},
		"size": {strconv.Itoa(page.Size)},
	}

	var result entity.Page[entity.Facilitator]
	err := m.client.Get(ctx, "/me/facilitators"+queryString(q), &result)

	return result, err
}

// SetFacilitatorCohortBatches replaces the batches assigned to a facilitator.
func (m *MEAPI) SetFacilitatorCohortBatches(ctx context.Context, facilitatorID string, batchIDs []string) (entity.Facilitator, error) {
	var result entity.Facilitator
	body := map[string][]string{"cohortBatchIds": batchIDs}
	err := m.client.Put(ctx, fmt.Sprintf("/me/facilitators/%s/cohort-batches", facilitatorID), body, &result)

	return result, err
}

// AssignCourseToFacilitator adds a course to a facilitator's teaching load.
func (m *MEAPI) AssignCourseToFacilitator(ctx context.Context, facilitatorID, courseID string) (entity.Facilitator, error) {
	var result entity.Facilitator
	body := map[string]string{"courseId": courseID}
	err := m.client.Post(ctx, fmt.Sprintf("/me/facilitators/%s/assign-course", facilitatorID), body, &result)

	return result, err
}

// RemoveCourseFromFacilitator takes a course off a facilitator's load.
func (m *MEAPI) RemoveCourseFromFacilitator(ctx context.Context, facilitatorID, courseID string) error {
	return m.client.Delete(ctx, fmt.Sprintf("/me/facilitators/%s/courses/%s", facilitatorID, courseID), nil)
}

// Participants lists participants with optional server-side filters.
func (m *MEAPI) Participants(ctx context.Context, page entity.PageRequest, filter entity.ParticipantFilter) (entity.Page[entity.Participant], error) {
	q := url.Values{
		"page":     {strconv.Itoa(page.Page)},
		"size":     {strconv.Itoa(page.Size)},
		"cohortId": {filter.CohortID},
		"batchId":  {filter.BatchID},
		"status":   {filter.Status},
	}

	var result entity.Page[entity.Participant]
	err := m.client.Get(ctx, "/me/participants"+queryString(q), &result)

	return result, err
}

// ParticipantStats summarizes enrollment across the program.
func (m *MEAPI) ParticipantStats(ctx context.Context) (entity.ParticipantStats, error) {
	var result entity.ParticipantStats
	err := m.client.Get(ctx, "/me/participants/stats", &result)

	return result, err
}

// CreateParticipant enrolls a participant into a cohort.
func (m *MEAPI) CreateParticipant(ctx context.Context, req CreateParticipantRequest) (entity.Participant, error) {
	var result entity.Participant
	err := m.client.Post(ctx, "/me/participants", req, &result)

	return result, err
}
