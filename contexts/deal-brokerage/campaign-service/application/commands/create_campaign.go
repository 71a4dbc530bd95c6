package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	application "adbroker/contexts/deal-brokerage/campaign-service/application"
	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
)

type CreateCampaignCommand struct {
	AdvertiserID    string
	Title           string
	Brief           string
	BudgetTON       decimal.Decimal
	PricePerPostTON decimal.Decimal
	Targeting       entities.Targeting
}

type CreateCampaignUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaign := entities.Campaign{
		AdvertiserID:    strings.TrimSpace(cmd.AdvertiserID),
		Title:           strings.TrimSpace(cmd.Title),
		Brief:           strings.TrimSpace(cmd.Brief),
		BudgetTON:       cmd.BudgetTON,
		PricePerPostTON: cmd.PricePerPostTON,
		Targeting:       cmd.Targeting,
	}
	if !campaign.ValidateCreate() {
		return entities.Campaign{}, domainerrors.ErrValidation
	}

	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	now := uc.Clock.Now().UTC()

	campaign.CampaignID = campaignID
	campaign.Status = entities.CampaignStatusActive
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	if err := uc.Repository.CreateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "deal-brokerage/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"advertiser_id", campaign.AdvertiserID,
	)
	return campaign, nil
}
