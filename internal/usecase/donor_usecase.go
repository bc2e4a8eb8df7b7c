package usecase

import (
	"context"

	"medash/internal/domain/entity"
)

// DonorUsecase serves the donor surface: implementing partners and the
// aggregated impact statistics. Read-only.
type DonorUsecase interface {
	Partners(ctx context.Context) ([]entity.Partner, error)
	Statistics(ctx context.Context) (entity.DonorStatistics, error)
}
