package backend

import (
	"context"

	"medash/internal/domain/entity"
)

// PartnersAPI maps the donor-facing organizations endpoint family.
type PartnersAPI struct {
	client *Client
}

// NewPartnersAPI is the constructor for PartnersAPI.
func NewPartnersAPI(client *Client) *PartnersAPI {
	return &PartnersAPI{client: client}
}

// Partners lists implementing partner organizations.
func (p *PartnersAPI) Partners(ctx context.Context) ([]entity.Partner, error) {
	var result []entity.Partner
	err := p.client.Get(ctx, "/organizations/partners", &result)

	return result, err
}

// Statistics aggregates program impact for the donor view.
func (p *PartnersAPI) Statistics(ctx context.Context) (entity.DonorStatistics, error) {
	var result entity.DonorStatistics
	err := p.client.Get(ctx, "/organizations/partners/statistics", &result)

	return result, err
}
