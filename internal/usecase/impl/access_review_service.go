package impl

import (
	"context"
	"log/slog"

	"medash/internal/domain/entity"
	"medash/internal/infra/querycache"
	"medash/internal/usecase"
)

const (
	resourceAccessRequests        = "access-requests"
	resourcePendingAccessRequests = "access-requests/pending"
)

// accessReviewBackend is the slice of the backend surface the review queue
// needs. backend.AuthAPI satisfies it.
type accessReviewBackend interface {
	AccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error)
	PendingAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error)
	ApproveAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error)
	RejectAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error)
}

// accessReviewService implements the AccessReviewUsecase interface.
type accessReviewService struct {
	auth   accessReviewBackend
	cache  *querycache.Store
	logger *slog.Logger
}

// NewAccessReviewService is the constructor for accessReviewService.
func NewAccessReviewService(
	auth accessReviewBackend,
	cache *querycache.Store,
	logger *slog.Logger,
) usecase.AccessReviewUsecase {
	return &accessReviewService{
		auth:   auth,
		cache:  cache,
		logger: logger,
	}
}

// ListAccessRequests lists all access requests, newest first.
func (srv *accessReviewService) ListAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error) {
	key := querycache.NewKey(resourceAccessRequests, page.Page, page.Size, page.Sort)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.Page[entity.AccessRequest], error) {
		return srv.auth.AccessRequests(ctx, page)
	})
}

// PendingAccessRequests lists requests still awaiting review.
func (srv *accessReviewService) PendingAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error) {
	key := querycache.NewKey(resourcePendingAccessRequests, page.Page, page.Size)

	return querycache.Fetch(ctx, srv.cache, key, querycache.QueryOptions{}, func(ctx context.Context) (entity.Page[entity.AccessRequest], error) {
		return srv.auth.PendingAccessRequests(ctx, page)
	})
}

// ApproveAccessRequest grants the requested role. The request disappears
// from the pending queue immediately and comes back only if the call fails.
func (srv *accessReviewService) ApproveAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error) {
	return srv.review(ctx, requestID, srv.auth.ApproveAccessRequest)
}

// RejectAccessRequest declines the requested role.
func (srv *accessReviewService) RejectAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error) {
	return srv.review(ctx, requestID, srv.auth.RejectAccessRequest)
}

func (srv *accessReviewService) review(
	ctx context.Context,
	requestID string,
	call func(context.Context, string) (entity.AccessRequest, error),
) (entity.AccessRequest, error) {
	pendingKeys := srv.cache.Keys(resourcePendingAccessRequests)
	mutation := querycache.Mutation{
		AffectedKeys:      pendingKeys,
		AffectedResources: []string{resourceAccessRequests, resourcePendingAccessRequests},
		Optimistic: func(s *querycache.Store) {
			for _, key := range pendingKeys {
				s.Patch(key, func(old any) any {
					page, ok := old.(entity.Page[entity.AccessRequest])
					if !ok {
						return old
					}

					next := page
					next.Content = make([]entity.AccessRequest, 0, len(page.Content))
					for _, req := range page.Content {
						if req.ID == requestID {
							next.TotalElements--

							continue
						}
						next.Content = append(next.Content, req)
					}

					return next
				})
			}
		},
	}

	return querycache.Mutate(ctx, srv.cache, mutation, func(ctx context.Context) (entity.AccessRequest, error) {
		return call(ctx, requestID)
	})
}
