package impl

import (
	"context"
	"log/slog"

	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"
	"medash/internal/infra/backend"
	"medash/internal/infra/querycache"
	"medash/internal/usecase"
)

const (
	resourceMyCohorts          = "facilitator/my-cohorts"
	resourceFacilitatorProfile = "facilitator/profile"
	resourceAttendance         = "facilitator/attendance"
)

// facilitatorBackend is the slice of the backend surface the facilitator
// service calls. backend.FacilitatorAPI satisfies it.
type facilitatorBackend interface {
	MyCohorts(ctx context.Context) ([]entity.FacilitatorCohort, error)
	Profile(ctx context.Context) (entity.FacilitatorProfile, error)
	AttendanceSheet(ctx context.Context, query backend.AttendanceSheetQuery) (entity.AttendanceSheet, error)
	MarkAttendance(ctx context.Context, req entity.MarkAttendanceRequest) (entity.MarkAttendanceResult, error)
}

// facilitatorService implements the FacilitatorUsecase interface.
type facilitatorService struct {
	facilitator facilitatorBackend
	cache       *querycache.Store
	logger      *slog.Logger
}

// NewFacilitatorService is the constructor for facilitatorService.
func NewFacilitatorService(
	facilitator facilitatorBackend,
	cache *querycache.Store,
	logger *slog.Logger,
) usecase.FacilitatorUsecase {
	return &facilitatorService{
		facilitator: facilitator,
		cache:       cache,
		logger:      logger,
	}
}

func (srv *facilitatorService) MyCohorts(ctx context.Context) ([]entity.FacilitatorCohort, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceMyCohorts), querycache.QueryOptions{}, srv.facilitator.MyCohorts)
}

func (srv *facilitatorService) Profile(ctx context.Context) (entity.FacilitatorProfile, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceFacilitatorProfile), querycache.QueryOptions{}, srv.facilitator.Profile)
}

// AttendanceSheet fetches the attendance view for one cohort session or
// date range.
func (srv *facilitatorService) AttendanceSheet(ctx context.Context, input *usecase.AttendanceSheetInput) (entity.AttendanceSheet, error) {
	if input.Date == "" && input.StartDate == "" {
		return entity.AttendanceSheet{}, apierror.NewValidation("a session date or date range is required")
	}

	key := querycache.NewKey(resourceAttendance, input.CohortID, input.Date, input.StartDate, input.EndDate)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.AttendanceSheet, error) {
		return srv.facilitator.AttendanceSheet(ctx, backend.AttendanceSheetQuery{
			CohortID:  input.CohortID,
			Date:      input.Date,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
	})
}

// MarkAttendance submits a session's marks. The cached sheet shows the new
// marks immediately; a rejected submission restores the previous marks.
func (srv *facilitatorService) MarkAttendance(ctx context.Context, input *usecase.MarkAttendanceInput) (entity.MarkAttendanceResult, error) {
	for _, record := range input.Records {
		if !record.Status.IsValid() {
			return entity.MarkAttendanceResult{}, apierror.NewValidation("unknown attendance status")
		}
	}

	sheetKey := querycache.NewKey(resourceAttendance, input.CohortID, input.Date, "", "")
	mutation := querycache.Mutation{
		AffectedKeys:      []querycache.Key{sheetKey},
		AffectedResources: []string{resourceAttendance},
		Optimistic: func(s *querycache.Store) {
			s.Patch(sheetKey, func(old any) any {
				sheet, ok := old.(entity.AttendanceSheet)
				if !ok {
					return old
				}

				marks := make(map[string]entity.AttendanceRecord, len(input.Records))
				for _, record := range input.Records {
					marks[record.ParticipantID] = record
				}

				next := sheet
				next.Participants = make([]entity.AttendanceParticipant, len(sheet.Participants))
				copy(next.Participants, sheet.Participants)
				for i := range next.Participants {
					if mark, found := marks[next.Participants[i].ParticipantID]; found {
						next.Participants[i].Status = mark.Status
						next.Participants[i].Remarks = mark.Remarks
					}
				}

				return next
			})
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.MarkAttendanceResult, error) {
		return srv.facilitator.MarkAttendance(ctx, entity.MarkAttendanceRequest{
			SessionDate: input.Date,
			CohortID:    input.CohortID,
			Records:     input.Records,
		})
	})
}
