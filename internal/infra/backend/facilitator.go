package backend

import (
	"context"
	"net/url"

	"medash/internal/domain/entity"
)

// FacilitatorAPI maps the facilitator endpoint family: assigned cohorts,
// the facilitator profile and attendance.
type FacilitatorAPI struct {
	client *Client
}

// NewFacilitatorAPI is the constructor for FacilitatorAPI.
func NewFacilitatorAPI(client *Client) *FacilitatorAPI {
	return &FacilitatorAPI{client: client}
}

// MyCohorts lists the cohorts assigned to the signed-in facilitator.
func (f *FacilitatorAPI) MyCohorts(ctx context.Context) ([]entity.FacilitatorCohort, error) {
	var result []entity.FacilitatorCohort
	err := f.client.Get(ctx, "/facilitator/my-cohorts", &result)

	return result, err
}

// Profile returns the signed-in facilitator's profile.
func (f *FacilitatorAPI) Profile(ctx context.Context) (entity.FacilitatorProfile, error) {
	var result entity.FacilitatorProfile
	err := f.client.Get(ctx, "/facilitator/profile", &result)

	return result, err
}

// AttendanceSheetQuery narrows the attendance sheet to a cohort and a
// session date or date range. Empty fields are omitted.
type AttendanceSheetQuery struct {
	CohortID  string
	Date      string
	StartDate string
	EndDate   string
}

// AttendanceSheet fetches the attendance view for one cohort session.
func (f *FacilitatorAPI) AttendanceSheet(ctx context.Context, query AttendanceSheetQuery) (entity.AttendanceSheet, error) {
	q := url.Values{
		"cohortId":  {query.CohortID},
		"date":      {query.Date},
		"startDate": {query.StartDate},
		"endDate":   {query.EndDate},
	}

	var result entity.AttendanceSheet
	err := f.client.Get(ctx, "/facilitator/attendance/participants"+queryString(q), &result)

	return result, err
}

// MarkAttendance submits a session's marks for a cohort in one call.
func (f *FacilitatorAPI) MarkAttendance(ctx context.Context, req entity.MarkAttendanceRequest) (entity.MarkAttendanceResult, error) {
	var result entity.MarkAttendanceResult
	err := f.client.Post(ctx, "/facilitator/attendance/mark", req, &result)

	return result, err
}
