package querycache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCourses(t *testing.T, s *Store, key Key, courses []entity.Course) *atomic.Int32 {
	t.Helper()

	var calls atomic.Int32
	_, err := Fetch(context.Background(), s, key, noRefresh, func(ctx context.Context) ([]entity.Course, error) {
		calls.Add(1)

		return courses, nil
	})
	require.NoError(t, err)

	return &calls
}

func TestMutate_FailedOptimisticMutationRestoresCacheExactly(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("courses", 0, 100)

	original := []entity.Course{
		{ID: "c1", Name: "Digital Literacy", Code: "DL-101", Active: true},
		{ID: "c2", Name: "Financial Skills", Code: "FS-201", Active: false},
	}
	calls := seedCourses(t, s, key, original)

	mutation := Mutation{
		AffectedKeys: []Key{key},
		Optimistic: func(s *Store) {
			s.Patch(key, func(old any) any {
				courses := old.([]entity.Course)
				patched := make([]entity.Course, len(courses))
				copy(patched, courses)
				patched[1].Active = true

				return patched
			})
		},
	}

	_, err := Mutate(context.Background(), s, mutation, func(ctx context.Context) (entity.Course, error) {
		return entity.Course{}, &apierror.ServerError{Status: 500}
	})
	require.Error(t, err)

	// The cache must be value-equal to its pre-mutation state, and still
	// fresh enough that reading it costs no network call.
	got, err := Fetch(context.Background(), s, key, noRefresh, func(ctx context.Context) ([]entity.Course, error) {
		calls.Add(1)

		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, original, got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutate_OptimisticPatchIsVisibleBeforeResolution(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("courses", 0, 100)
	seedCourses(t, s, key, []entity.Course{{ID: "c1", Name: "Old Name"}})

	mutation := Mutation{
		AffectedKeys: []Key{key},
		Optimistic: func(s *Store) {
			s.Patch(key, func(old any) any {
				return []entity.Course{{ID: "c1", Name: "New Name"}}
			})
		},
	}

	var observed []entity.Course
	_, err := Mutate(context.Background(), s, mutation, func(ctx context.Context) (entity.Course, error) {
		data, _, ok := s.lookup(key)
		require.True(t, ok)
		observed = data.([]entity.Course)

		return entity.Course{ID: "c1", Name: "New Name"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", observed[0].Name)
}

func TestMutate_SuccessInvalidatesAffectedKeys(t *testing.T) {
	s := newTestStore(t, time.Minute)
	listKey := NewKey("courses", 0, 100)
	statsKey := NewKey("participant-stats")

	listCalls := seedCourses(t, s, listKey, []entity.Course{{ID: "c1"}})
	_, err := Fetch(context.Background(), s, statsKey, noRefresh, func(ctx context.Context) (entity.ParticipantStats, error) {
		return entity.ParticipantStats{Total: 10}, nil
	})
	require.NoError(t, err)

	mutation := Mutation{AffectedKeys: []Key{listKey, statsKey}}
	_, err = Mutate(context.Background(), s, mutation, func(ctx context.Context) (entity.Course, error) {
		return entity.Course{ID: "c2"}, nil
	})
	require.NoError(t, err)

	// Both keys are gone; the next read refetches.
	_, _, ok := s.lookup(statsKey)
	assert.False(t, ok)

	_, err = Fetch(context.Background(), s, listKey, noRefresh, func(ctx context.Context) ([]entity.Course, error) {
		listCalls.Add(1)

		return []entity.Course{{ID: "c1"}, {ID: "c2"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load())
}

func TestMutate_FailureWithoutOptimisticLeavesCacheUntouched(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("courses", 0, 100)
	original := []entity.Course{{ID: "c1", Name: "Kept"}}
	seedCourses(t, s, key, original)

	_, err := Mutate(context.Background(), s, Mutation{AffectedKeys: []Key{key}}, func(ctx context.Context) (entity.Course, error) {
		return entity.Course{}, &apierror.ClientError{Status: 400, Msg: "name is required"}
	})
	require.Error(t, err)

	data, _, ok := s.lookup(key)
	require.True(t, ok)
	assert.Equal(t, original, data)
}

func TestMutate_ErrorsPropagateUnchanged(t *testing.T) {
	s := newTestStore(t, time.Minute)

	want := &apierror.ServerError{Status: 500}
	_, err := Mutate(context.Background(), s, Mutation{}, func(ctx context.Context) (string, error) {
		return "", want
	})
	assert.Equal(t, want, err)
}
