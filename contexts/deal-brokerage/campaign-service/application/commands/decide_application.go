package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "adbroker/contexts/deal-brokerage/campaign-service/application"
	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
)

type DecideApplicationCommand struct {
	CampaignID    string
	ApplicationID string
	ActorID       string
}

// DecideApplicationUseCase is the advertiser's decision on a pending
// application. Accept runs in two legs: the application flips to accepted,
// then the deal engine opens the deal and the deal id is written back. When
// intake fails the first leg is reverted, so either both systems record the
// acceptance or neither does.
type DecideApplicationUseCase struct {
	Repository ports.Repository
	Intake     ports.DealIntake
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc DecideApplicationUseCase) Accept(ctx context.Context, cmd DecideApplicationCommand) (entities.CampaignApplication, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaign, item, err := uc.load(ctx, cmd)
	if err != nil {
		return entities.CampaignApplication{}, err
	}
	if item.Decided() {
		return entities.CampaignApplication{}, domainerrors.ErrApplicationDecided
	}

	now := uc.Clock.Now().UTC()
	item.Status = entities.ApplicationStatusAccepted
	item.UpdatedAt = now
	item.DecidedAt = &now
	if err := uc.Repository.UpdateApplication(ctx, item, entities.ApplicationStatusPending); err != nil {
		return entities.CampaignApplication{}, err
	}

	dealID, err := uc.Intake.CreateDeal(ctx, ports.DealIntakeRequest{
		AdvertiserID:  campaign.AdvertiserID,
		ChannelID:     item.ChannelID,
		CampaignID:    campaign.CampaignID,
		ApplicationID: item.ApplicationID,
		PriceTON:      item.ProposedPriceTON,
	})
	if err != nil {
		rollback := item
		rollback.Status = entities.ApplicationStatusPending
		rollback.UpdatedAt = uc.Clock.Now().UTC()
		rollback.DecidedAt = nil
		if revertErr := uc.Repository.UpdateApplication(ctx, rollback, entities.ApplicationStatusAccepted); revertErr != nil {
			logger.Error("application rollback failed",
				"event", "campaign_application_rollback_failed",
				"module", "deal-brokerage/campaign-service",
				"layer", "application",
				"application_id", item.ApplicationID,
				"error", revertErr.Error(),
			)
		}
		return entities.CampaignApplication{}, fmt.Errorf("%w: %w", domainerrors.ErrDealIntake, err)
	}

	item.DealID = dealID
	item.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateApplication(ctx, item, entities.ApplicationStatusAccepted); err != nil {
		return entities.CampaignApplication{}, err
	}

	logger.Info("campaign application accepted",
		"event", "campaign_application_accepted",
		"module", "deal-brokerage/campaign-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", campaign.CampaignID,
		"deal_id", dealID,
	)
	return item, nil
}

func (uc DecideApplicationUseCase) Reject(ctx context.Context, cmd DecideApplicationCommand) (entities.CampaignApplication, error) {
	logger := application.ResolveLogger(uc.Logger)

	_, item, err := uc.load(ctx, cmd)
	if err != nil {
		return entities.CampaignApplication{}, err
	}
	if item.Decided() {
		return entities.CampaignApplication{}, domainerrors.ErrApplicationDecided
	}

	now := uc.Clock.Now().UTC()
	item.Status = entities.ApplicationStatusRejected
	item.UpdatedAt = now
	item.DecidedAt = &now
	if err := uc.Repository.UpdateApplication(ctx, item, entities.ApplicationStatusPending); err != nil {
		return entities.CampaignApplication{}, err
	}

	logger.Info("campaign application rejected",
		"event", "campaign_application_rejected",
		"module", "deal-brokerage/campaign-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
	)
	return item, nil
}

func (uc DecideApplicationUseCase) load(ctx context.Context, cmd DecideApplicationCommand) (entities.Campaign, entities.CampaignApplication, error) {
	campaign, err := uc.Repository.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, entities.CampaignApplication{}, err
	}
	if campaign.AdvertiserID != strings.TrimSpace(cmd.ActorID) {
		return entities.Campaign{}, entities.CampaignApplication{}, domainerrors.ErrForbidden
	}

	item, err := uc.Repository.GetApplication(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return entities.Campaign{}, entities.CampaignApplication{}, err
	}
	if item.CampaignID != campaign.CampaignID {
		return entities.Campaign{}, entities.CampaignApplication{}, domainerrors.ErrApplicationNotFound
	}
	return campaign, item, nil
}
