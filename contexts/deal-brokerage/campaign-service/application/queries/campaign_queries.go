package queries

import (
	"context"
	"log/slog"
	"strings"

	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Repository.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

func (uc QueryUseCase) ListCampaigns(ctx context.Context, advertiserID string, status entities.CampaignStatus) ([]entities.Campaign, error) {
	return uc.Repository.ListCampaigns(ctx, ports.CampaignFilter{
		AdvertiserID: strings.TrimSpace(advertiserID),
		Status:       status,
	})
}

// ListApplications is advertiser-only: bids are not visible to competing
// channel owners.
func (uc QueryUseCase) ListApplications(ctx context.Context, campaignID string, viewerID string) ([]entities.CampaignApplication, error) {
	campaign, err := uc.Repository.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, err
	}
	if campaign.AdvertiserID != strings.TrimSpace(viewerID) {
		return nil, domainerrors.ErrForbidden
	}
	return uc.Repository.ListApplications(ctx, campaign.CampaignID)
}

func (uc QueryUseCase) MyApplications(ctx context.Context, ownerID string) ([]entities.CampaignApplication, error) {
	return uc.Repository.ListApplicationsByOwner(ctx, strings.TrimSpace(ownerID))
}
