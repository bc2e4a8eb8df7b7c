package impl

import (
	"context"
	"log/slog"
	"testing"

	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"
	"medash/internal/infra/backend"
	"medash/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMEBackend counts calls and delegates to func fields where a test
// needs specific behavior.
type fakeMEBackend struct {
	coursesFn      func(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error)
	toggleCourseFn func(ctx context.Context, id string) (entity.Course, error)
	cohortsFn      func(ctx context.Context) ([]entity.Cohort, error)

	coursesCalls int
	cohortsCalls int
	statsCalls   int
}

func (f *fakeMEBackend) OverviewAnalytics(ctx context.Context) (entity.AnalyticsOverview, error) {
	return entity.AnalyticsOverview{}, nil
}

func (f *fakeMEBackend) RetentionTrend(ctx context.Context) ([]entity.RetentionPoint, error) {
	return nil, nil
}

func (f *fakeMEBackend) AttendanceSummary(ctx context.Context) (entity.AttendanceSummary, error) {
	return entity.AttendanceSummary{}, nil
}

func (f *fakeMEBackend) TopPerformers(ctx context.Context) ([]entity.TopPerformer, error) {
	return nil, nil
}

func (f *fakeMEBackend) CohortBatches(ctx context.Context) ([]entity.CohortBatch, error) {
	return nil, nil
}

func (f *fakeMEBackend) CreateCohortBatch(ctx context.Context, req backend.CreateCohortBatchRequest) (entity.CohortBatch, error) {
	return entity.CohortBatch{ID: "b1", Name: req.Name}, nil
}

func (f *fakeMEBackend) UpdateCohortBatchStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.CohortBatch, error) {
	return entity.CohortBatch{ID: id, Status: status}, nil
}

func (f *fakeMEBackend) Cohorts(ctx context.Context) ([]entity.Cohort, error) {
	f.cohortsCalls++
	if f.cohortsFn == nil {
		return nil, nil
	}

	return f.cohortsFn(ctx)
}

func (f *fakeMEBackend) CreateCohort(ctx context.Context, req backend.CreateCohortRequest) (entity.Cohort, error) {
	return entity.Cohort{ID: "c1", Name: req.Name}, nil
}

func (f *fakeMEBackend) UpdateCohortStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.Cohort, error) {
	return entity.Cohort{ID: id, Status: status}, nil
}

func (f *fakeMEBackend) Courses(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
	f.coursesCalls++
	if f.coursesFn == nil {
		return entity.Page[entity.Course]{}, nil
	}

	return f.coursesFn(ctx, page)
}

func (f *fakeMEBackend) CreateCourse(ctx context.Context, req backend.CreateCourseRequest) (entity.Course, error) {
	return entity.Course{ID: "crs-new", Name: req.Name}, nil
}

func (f *fakeMEBackend) UpdateCourse(ctx context.Context, id string, req backend.UpdateCourseRequest) (entity.Course, error) {
	return entity.Course{ID: id, Name: req.Name}, nil
}

func (f *fakeMEBackend) DeleteCourse(ctx context.Context, id string) error {
	return nil
}

func (f *fakeMEBackend) ToggleCourseStatus(ctx context.Context, id string) (entity.Course, error) {
	if f.toggleCourseFn == nil {
		return entity.Course{ID: id}, nil
	}

	return f.toggleCourseFn(ctx, id)
}

func (f *fakeMEBackend) Facilitators(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Facilitator], error) {
	return entity.Page[entity.Facilitator]{}, nil
}

func (f *fakeMEBackend) SetFacilitatorCohortBatches(ctx context.Context, facilitatorID string, batchIDs []string) (entity.Facilitator, error) {
	return entity.Facilitator{ID: facilitatorID, CohortBatchIDs: batchIDs}, nil
}

func (f *fakeMEBackend) AssignCourseToFacilitator(ctx context.Context, facilitatorID, courseID string) (entity.Facilitator, error) {
	return entity.Facilitator{ID: facilitatorID}, nil
}

func (f *fakeMEBackend) RemoveCourseFromFacilitator(ctx context.Context, facilitatorID, courseID string) error {
	return nil
}

func (f *fakeMEBackend) Participants(ctx context.Context, page entity.PageRequest, filter entity.ParticipantFilter) (entity.Page[entity.Participant], error) {
	return entity.Page[entity.Participant]{}, nil
}

func (f *fakeMEBackend) ParticipantStats(ctx context.Context) (entity.ParticipantStats, error) {
	f.statsCalls++

	return entity.ParticipantStats{}, nil
}

func (f *fakeMEBackend) CreateParticipant(ctx context.Context, req backend.CreateParticipantRequest) (entity.Participant, error) {
	return entity.Participant{ID: "p1", Email: req.Email}, nil
}

func coursesPage(courses ...entity.Course) entity.Page[entity.Course] {
	return entity.Page[entity.Course]{
		Content:       courses,
		TotalPages:    1,
		TotalElements: len(courses),
		CurrentPage:   0,
	}
}

func TestMEService_Courses_ServesSecondReadFromCache(t *testing.T) {
	me := &fakeMEBackend{
		coursesFn: func(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
			return coursesPage(entity.Course{ID: "crs-1", Name: "Digital Literacy", Active: true}), nil
		},
	}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	page := entity.PageRequest{Page: 0, Size: 20}
	first, err := service.Courses(context.Background(), page)
	require.NoError(t, err)
	second, err := service.Courses(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, me.coursesCalls)
}

func TestMEService_Courses_DistinctPagesFetchIndependently(t *testing.T) {
	me := &fakeMEBackend{}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	_, err := service.Courses(context.Background(), entity.PageRequest{Page: 0, Size: 20})
	require.NoError(t, err)
	_, err = service.Courses(context.Background(), entity.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, me.coursesCalls)
}

func TestMEService_ToggleCourseStatus_RejectedToggleRestoresCache(t *testing.T) {
	me := &fakeMEBackend{
		coursesFn: func(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
			return coursesPage(
				entity.Course{ID: "crs-1", Name: "Digital Literacy", Active: true},
				entity.Course{ID: "crs-2", Name: "Tailoring", Active: false},
			), nil
		},
		toggleCourseFn: func(ctx context.Context, id string) (entity.Course, error) {
			return entity.Course{}, &apierror.ClientError{Status: 409, Msg: "Course has active cohorts"}
		},
	}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	page := entity.PageRequest{Page: 0, Size: 20}
	before, err := service.Courses(context.Background(), page)
	require.NoError(t, err)

	_, err = service.ToggleCourseStatus(context.Background(), "crs-1")
	require.Error(t, err)

	after, err := service.Courses(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, me.coursesCalls, "a rolled-back toggle must not force a refetch")
}

func TestMEService_ToggleCourseStatus_SuccessInvalidatesCoursePages(t *testing.T) {
	me := &fakeMEBackend{
		coursesFn: func(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
			return coursesPage(entity.Course{ID: "crs-1", Active: true}), nil
		},
	}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	page := entity.PageRequest{Page: 0, Size: 20}
	_, err := service.Courses(context.Background(), page)
	require.NoError(t, err)

	_, err = service.ToggleCourseStatus(context.Background(), "crs-1")
	require.NoError(t, err)

	_, err = service.Courses(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, 2, me.coursesCalls)
}

func TestMEService_UpdateCohortStatus_RejectsUnknownStatus(t *testing.T) {
	me := &fakeMEBackend{}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	_, err := service.UpdateCohortStatus(context.Background(), "c1", entity.CohortStatus("PAUSED"))

	var validationErr *apierror.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestMEService_UpdateCohortStatus_RefreshesCachedListing(t *testing.T) {
	me := &fakeMEBackend{
		cohortsFn: func(ctx context.Context) ([]entity.Cohort, error) {
			return []entity.Cohort{
				{ID: "c1", Name: "Cohort A", Status: entity.CohortStatusUpcoming},
			}, nil
		},
	}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	_, err := service.Cohorts(context.Background())
	require.NoError(t, err)

	_, err = service.UpdateCohortStatus(context.Background(), "c1", entity.CohortStatusActive)
	require.NoError(t, err)

	// The listing was invalidated by the successful write.
	_, err = service.Cohorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, me.cohortsCalls)
}

func TestMEService_CreateParticipant_InvalidatesStats(t *testing.T) {
	me := &fakeMEBackend{}
	service := NewMEService(me, newTestCache(t), slog.New(slog.DiscardHandler))

	_, err := service.ParticipantStats(context.Background())
	require.NoError(t, err)

	_, err = service.CreateParticipant(context.Background(), &usecase.CreateParticipantInput{
		FirstName: "Amina",
		LastName:  "Diallo",
		Email:     "amina@example.org",
		StudentID: "STU-001",
		CohortID:  "c1",
	})
	require.NoError(t, err)

	_, err = service.ParticipantStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, me.statsCalls)
}
