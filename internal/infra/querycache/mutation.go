package querycache

import "context"

// Mutation describes a write's effect on the cache. AffectedKeys and
// AffectedResources are invalidated on success; Optimistic, when set,
// patches keys from AffectedKeys before the call and is rolled back
// verbatim on failure.
type Mutation struct {
	AffectedKeys      []Key
	AffectedResources []string
	Optimistic        func(s *Store)
}

// Mutate is the write path: snapshot, optimistic patch, call, then
// invalidate on success or restore on failure. Mutations against the same
// key are not coalesced; each runs independently and the last invalidation
// wins. Errors are surfaced unchanged after rollback.
func Mutate[T any](ctx context.Context, s *Store, m Mutation, fn func(context.Context) (T, error)) (T, error) {
	var snap Snapshot
	if m.Optimistic != nil {
		snap = s.TakeSnapshot(m.AffectedKeys)
		m.Optimistic(s)
	}

	result, err := fn(ctx)
	if err != nil {
		if m.Optimistic != nil {
			s.Restore(snap)
		}
		var zero T

		return zero, err
	}

	s.Invalidate(m.AffectedKeys...)
	if len(m.AffectedResources) > 0 {
		s.InvalidateResource(m.AffectedResources...)
	}

	return result, nil
}
