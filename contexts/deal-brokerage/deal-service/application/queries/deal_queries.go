package queries

import (
	"context"
	"log/slog"
	"strings"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/domain/services"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// GetDeal returns a deal only to a party on it. Reads are allowed in every
// state, including terminal ones.
func (uc QueryUseCase) GetDeal(ctx context.Context, dealID string, viewerID string) (entities.Deal, error) {
	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(dealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if services.ResolveRoles(deal, viewerID).None() {
		return entities.Deal{}, domainerrors.ErrForbidden
	}
	return deal, nil
}

// ListMyDeals returns every deal the viewer participates in, owner or
// applicant side.
func (uc QueryUseCase) ListMyDeals(ctx context.Context, viewerID string) ([]entities.Deal, error) {
	return uc.Repository.ListDeals(ctx, ports.DealFilter{PartyID: strings.TrimSpace(viewerID)})
}

// ListCreativeRevisions returns the full draft history for a deal, oldest
// first, to a party on the deal.
func (uc QueryUseCase) ListCreativeRevisions(ctx context.Context, dealID string, viewerID string) ([]entities.CreativeRevision, error) {
	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(dealID))
	if err != nil {
		return nil, err
	}
	if services.ResolveRoles(deal, viewerID).None() {
		return nil, domainerrors.ErrForbidden
	}
	return uc.Repository.ListCreativeRevisions(ctx, deal.DealID)
}
