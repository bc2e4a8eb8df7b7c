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
	resourceOverview          = "me/analytics/overview"
	resourceRetention         = "me/analytics/retention-trend"
	resourceAttendanceSummary = "me/analytics/attendance-summary"
	resourceTopPerformers     = "me/analytics/top-performers"
	resourceCohortBatches     = "me/cohort-batches"
	resourceCohorts           = "me/cohorts"
	resourceCourses           = "me/courses"
	resourceFacilitators      = "me/facilitators"
	resourceParticipants      = "me/participants"
	resourceParticipantStats  = "me/participants/stats"
)

// meBackend is the slice of the backend surface the ME officer service
// calls. backend.MEAPI satisfies it.
type meBackend interface {
	OverviewAnalytics(ctx context.Context) (entity.AnalyticsOverview, error)
	RetentionTrend(ctx context.Context) ([]entity.RetentionPoint, error)
	AttendanceSummary(ctx context.Context) (entity.AttendanceSummary, error)
	TopPerformers(ctx context.Context) ([]entity.TopPerformer, error)
	CohortBatches(ctx context.Context) ([]entity.CohortBatch, error)
	CreateCohortBatch(ctx context.Context, req backend.CreateCohortBatchRequest) (entity.CohortBatch, error)
	UpdateCohortBatchStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.CohortBatch, error)
	Cohorts(ctx context.Context) ([]entity.Cohort, error)
	CreateCohort(ctx context.Context, req backend.CreateCohortRequest) (entity.Cohort, error)
	UpdateCohortStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.Cohort, error)
	Courses(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error)
	CreateCourse(ctx context.Context, req backend.CreateCourseRequest) (entity.Course, error)
	UpdateCourse(ctx context.Context, id string, req backend.UpdateCourseRequest) (entity.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ToggleCourseStatus(ctx context.Context, id string) (entity.Course, error)
	Facilitators(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Facilitator], error)
	SetFacilitatorCohortBatches(ctx context.Context, facilitatorID string, batchIDs []string) (entity.Facilitator, error)
	AssignCourseToFacilitator(ctx context.Context, facilitatorID, courseID string) (entity.Facilitator, error)
	RemoveCourseFromFacilitator(ctx context.Context, facilitatorID, courseID string) error
	Participants(ctx context.Context, page entity.PageRequest, filter entity.ParticipantFilter) (entity.Page[entity.Participant], error)
	ParticipantStats(ctx context.Context) (entity.ParticipantStats, error)
	CreateParticipant(ctx context.Context, req backend.CreateParticipantRequest) (entity.Participant, error)
}

// meService implements the MEUsecase interface. Every read goes through
// the query cache; writes patch the pages they affect and invalidate the
// rest.
type meService struct {
	me     meBackend
	cache  *querycache.Store
	logger *slog.Logger
}

// NewMEService is the constructor for meService.
func NewMEService(me meBackend, cache *querycache.Store, logger *slog.Logger) usecase.MEUsecase {
	return &meService{
		me:     me,
		cache:  cache,
		logger: logger,
	}
}

func (srv *meService) OverviewAnalytics(ctx context.Context) (entity.AnalyticsOverview, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceOverview), querycache.QueryOptions{}, srv.me.OverviewAnalytics)
}

func (srv *meService) RetentionTrend(ctx context.Context) ([]entity.RetentionPoint, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceRetention), querycache.QueryOptions{}, srv.me.RetentionTrend)
}

func (srv *meService) AttendanceSummary(ctx context.Context) (entity.AttendanceSummary, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceAttendanceSummary), querycache.QueryOptions{}, srv.me.AttendanceSummary)
}

func (srv *meService) TopPerformers(ctx context.Context) ([]entity.TopPerformer, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceTopPerformers), querycache.QueryOptions{}, srv.me.TopPerformers)
}

func (srv *meService) CohortBatches(ctx context.Context) ([]entity.CohortBatch, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceCohortBatches), querycache.QueryOptions{}, srv.me.CohortBatches)
}

// CreateCohortBatch creates an intake grouping and refetches the listing;
// the new batch's server-assigned fields are not guessable locally.
func (srv *meService) CreateCohortBatch(ctx context.Context, input *usecase.CreateCohortBatchInput) (entity.CohortBatch, error) {
	mutation := querycache.Mutation{AffectedResources: []string{resourceCohortBatches}}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.CohortBatch, error) {
		return srv.me.CreateCohortBatch(ctx, backend.CreateCohortBatchRequest{
			Name:      input.Name,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
	})
}

// UpdateCohortBatchStatus moves a batch through its lifecycle. The new
// status shows up in the cached listing immediately.
func (srv *meService) UpdateCohortBatchStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.CohortBatch, error) {
	if !status.IsValid() {
		return entity.CohortBatch{}, apierror.NewValidation("unknown cohort status")
	}

	key := querycache.NewKey(resourceCohortBatches)
	mutation := querycache.Mutation{
		AffectedKeys: []querycache.Key{key},
		Optimistic: func(s *querycache.Store) {
			s.Patch(key, func(old any) any {
				batches, ok := old.([]entity.CohortBatch)
				if !ok {
					return old
				}

				next := make([]entity.CohortBatch, len(batches))
				copy(next, batches)
				for i := range next {
					if next[i].ID == id {
						next[i].Status = status
					}
				}

				return next
			})
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.CohortBatch, error) {
		return srv.me.UpdateCohortBatchStatus(ctx, id, status)
	})
}

func (srv *meService) Cohorts(ctx context.Context) ([]entity.Cohort, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceCohorts), querycache.QueryOptions{}, srv.me.Cohorts)
}

func (srv *meService) CreateCohort(ctx context.Context, input *usecase.CreateCohortInput) (entity.Cohort, error) {
	mutation := querycache.Mutation{AffectedResources: []string{resourceCohorts}}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Cohort, error) {
		return srv.me.CreateCohort(ctx, backend.CreateCohortRequest{
			Name:      input.Name,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
	})
}

func (srv *meService) UpdateCohortStatus(ctx context.Context, id string, status entity.CohortStatus) (entity.Cohort, error) {
	if !status.IsValid() {
		return entity.Cohort{}, apierror.NewValidation("unknown cohort status")
	}

	key := querycache.NewKey(resourceCohorts)
	mutation := querycache.Mutation{
		AffectedKeys: []querycache.Key{key},
		Optimistic: func(s *querycache.Store) {
			s.Patch(key, func(old any) any {
				cohorts, ok := old.([]entity.Cohort)
				if !ok {
					return old
				}

				next := make([]entity.Cohort, len(cohorts))
				copy(next, cohorts)
				for i := range next {
					if next[i].ID == id {
						next[i].Status = status
					}
				}

				return next
			})
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Cohort, error) {
		return srv.me.UpdateCohortStatus(ctx, id, status)
	})
}

func (srv *meService) Courses(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Course], error) {
	key := querycache.NewKey(resourceCourses, page.Page, page.Size)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.Page[entity.Course], error) {
		return srv.me.Courses(ctx, page)
	})
}

func (srv *meService) CreateCourse(ctx context.Context, input *usecase.CreateCourseInput) (entity.Course, error) {
	mutation := querycache.Mutation{AffectedResources: []string{resourceCourses}}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Course, error) {
		return srv.me.CreateCourse(ctx, backend.CreateCourseRequest{
			Name:  input.Name,
			Code:  input.Code,
			Level: input.Level,
		})
	})
}

// UpdateCourse replaces a course's editable fields. Cached pages show the
// new values immediately and roll back if the backend rejects the change.
func (srv *meService) UpdateCourse(ctx context.Context, id string, input *usecase.UpdateCourseInput) (entity.Course, error) {
	keys := srv.cache.Keys(resourceCourses)
	mutation := querycache.Mutation{
		AffectedKeys:      keys,
		AffectedResources: []string{resourceCourses},
		Optimistic: func(s *querycache.Store) {
			patchCoursePages(s, keys, id, func(course entity.Course) entity.Course {
				course.Name = input.Name
				course.Code = input.Code
				course.Description = input.Description
				course.DurationWeeks = input.DurationWeeks
				course.Level = input.Level

				return course
			})
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Course, error) {
		return srv.me.UpdateCourse(ctx, id, backend.UpdateCourseRequest{
			Name:          input.Name,
			Code:          input.Code,
			Description:   input.Description,
			DurationWeeks: input.DurationWeeks,
			Level:         input.Level,
		})
	})
}

// DeleteCourse removes a course. The row disappears from cached pages
// immediately and reappears only if the delete fails.
func (srv *meService) DeleteCourse(ctx context.Context, id string) error {
	keys := srv.cache.Keys(resourceCourses)
	mutation := querycache.Mutation{
		AffectedKeys:      keys,
		AffectedResources: []string{resourceCourses},
		Optimistic: func(s *querycache.Store) {
			for _, key := range keys {
				s.Patch(key, func(old any) any {
					page, ok := old.(entity.Page[entity.Course])
					if !ok {
						return old
					}

					next := page
					next.Content = make([]entity.Course, 0, len(page.Content))
					for _, course := range page.Content {
						if course.ID == id {
							next.TotalElements--

							continue
						}
						next.Content = append(next.Content, course)
					}

					return next
				})
			}
		},
	}

	_, err := querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, srv.me.DeleteCourse(ctx, id)
	})

	return err
}

// ToggleCourseStatus flips a course between active and inactive.
func (srv *meService) ToggleCourseStatus(ctx context.Context, id string) (entity.Course, error) {
	keys := srv.cache.Keys(resourceCourses)
	mutation := querycache.Mutation{
		AffectedKeys:      keys,
		AffectedResources: []string{resourceCourses},
		Optimistic: func(s *querycache.Store) {
			patchCoursePages(s, keys, id, func(course entity.Course) entity.Course {
				course.Active = !course.Active

				return course
			})
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Course, error) {
		return srv.me.ToggleCourseStatus(ctx, id)
	})
}

func (srv *meService) Facilitators(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Facilitator], error) {
	key := querycache.NewKey(resourceFacilitators, page.Page, page.Size)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.Page[entity.Facilitator], error) {
		return srv.me.Facilitators(ctx, page)
	})
}

// SetFacilitatorCohortBatches replaces a facilitator's batch assignments.
// Facilitator rows carry nested slices, so the listing is refetched rather
// than patched in place.
func (srv *meService) SetFacilitatorCohortBatches(ctx context.Context, facilitatorID string, batchIDs []string) (entity.Facilitator, error) {
	mutation := querycache.Mutation{AffectedResources: []string{resourceFacilitators}}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Facilitator, error) {
		return srv.me.SetFacilitatorCohortBatches(ctx, facilitatorID, batchIDs)
	})
}

func (srv *meService) AssignCourseToFacilitator(ctx context.Context, facilitatorID, courseID string) (entity.Facilitator, error) {
	mutation := querycache.Mutation{AffectedResources: []string{resourceFacilitators}}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Facilitator, error) {
		return srv.me.AssignCourseToFacilitator(ctx, facilitatorID, courseID)
	})
}

func (srv *meService) RemoveCourseFromFacilitator(ctx context.Context, facilitatorID, courseID string) error {
	mutation := querycache.Mutation{AffectedResources: []string{resourceFacilitators}}

	_, err := querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, srv.me.RemoveCourseFromFacilitator(ctx, facilitatorID, courseID)
	})

	return err
}

func (srv *meService) Participants(ctx context.Context, page entity.PageRequest, filter entity.ParticipantFilter) (entity.Page[entity.Participant], error) {
	key := querycache.NewKey(resourceParticipants, page.Page, page.Size, filter.CohortID, filter.BatchID, filter.Status)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.Page[entity.Participant], error) {
		return srv.me.Participants(ctx, page, filter)
	})
}

func (srv *meService) ParticipantStats(ctx context.Context) (entity.ParticipantStats, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceParticipantStats), querycache.QueryOptions{}, srv.me.ParticipantStats)
}

func (srv *meService) CreateParticipant(ctx context.Context, input *usecase.CreateParticipantInput) (entity.Participant, error) {
	mutation := querycache.Mutation{
		AffectedKeys:      []querycache.Key{querycache.NewKey(resourceParticipantStats)},
		AffectedResources: []string{resourceParticipants},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.Participant, error) {
		return srv.me.CreateParticipant(ctx, backend.CreateParticipantRequest{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			StudentID: input.StudentID,
			CohortID:  input.CohortID,
			Gender:    input.Gender,
		})
	})
}

// patchCoursePages applies patch to the matching course in every cached
// page, replacing slices rather than mutating them so rollback keeps the
// originals intact.
func patchCoursePages(s *querycache.Store, keys []querycache.Key, courseID string, patch func(entity.Course) entity.Course) {
	for _, key := range keys {
		s.Patch(key, func(old any) any {
			page, ok := old.(entity.Page[entity.Course])
			if !ok {
				return old
			}

			next := page
			next.Content = make([]entity.Course, len(page.Content))
			copy(next.Content, page.Content)
			for i := range next.Content {
				if next.Content[i].ID == courseID {
					next.Content[i] = patch(next.Content[i])
				}
			}

			return next
		})
	}
}
