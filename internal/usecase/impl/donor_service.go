package impl

import (
	"context"
	"log/slog"

	"medash/internal/domain/entity"
	"medash/internal/infra/querycache"
	"medash/internal/usecase"
)

const (
	resourcePartners        = "organizations/partners"
	resourceDonorStatistics = "organizations/partners/statistics"
)

// donorBackend is the slice of the backend surface the donor service
// calls. backend.PartnersAPI satisfies it.
type donorBackend interface {
	Partners(ctx context.Context) ([]entity.Partner, error)
	Statistics(ctx context.Context) (entity.DonorStatistics, error)
}

// donorService implements the DonorUsecase interface.
type donorService struct {
	partners donorBackend
	cache    *querycache.Store
	logger   *slog.Logger
}

// NewDonorService is the constructor for donorService.
func NewDonorService(partners donorBackend, cache *querycache.Store, logger *slog.Logger) usecase.DonorUsecase {
	return &donorService{
		partners: partners,
		cache:    cache,
		logger:   logger,
	}
}

func (srv *donorService) Partners(ctx context.Context) ([]entity.Partner, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourcePartners), querycache.QueryOptions{}, srv.partners.Partners)
}

func (srv *donorService) Statistics(ctx context.Context) (entity.DonorStatistics, error) {
	return querycache.Fetch(ctx, srv.cache, querycache.NewKey(resourceDonorStatistics), querycache.QueryOptions{}, srv.partners.Statistics)
}
