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

type ApplyToCampaignCommand struct {
	CampaignID       string
	ChannelID        string
	ChannelOwnerID   string
	ProposedPriceTON decimal.Decimal
	Message          string
}

// ApplyToCampaignUseCase records a channel owner's bid on an open campaign.
// A channel holds at most one pending application per campaign.
type ApplyToCampaignUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ApplyToCampaignUseCase) Execute(ctx context.Context, cmd ApplyToCampaignCommand) (entities.CampaignApplication, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaign, err := uc.Repository.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.CampaignApplication{}, err
	}
	if !campaign.AcceptsApplications() {
		return entities.CampaignApplication{}, domainerrors.ErrCampaignNotActive
	}
	if campaign.AdvertiserID == strings.TrimSpace(cmd.ChannelOwnerID) {
		return entities.CampaignApplication{}, domainerrors.ErrOwnCampaignApplication
	}

	price := cmd.ProposedPriceTON
	if price.IsZero() {
		price = campaign.PricePerPostTON
	}

	item := entities.CampaignApplication{
		CampaignID:       campaign.CampaignID,
		ChannelID:        strings.TrimSpace(cmd.ChannelID),
		ChannelOwnerID:   strings.TrimSpace(cmd.ChannelOwnerID),
		ProposedPriceTON: price,
		Message:          strings.TrimSpace(cmd.Message),
	}
	if !item.ValidateCreate() {
		return entities.CampaignApplication{}, domainerrors.ErrValidation
	}

	exists, err := uc.Repository.HasPendingApplication(ctx, campaign.CampaignID, item.ChannelID)
	if err != nil {
		return entities.CampaignApplication{}, err
	}
	if exists {
		return entities.CampaignApplication{}, domainerrors.ErrDuplicateApplication
	}

	applicationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.CampaignApplication{}, err
	}
	now := uc.Clock.Now().UTC()

	item.ApplicationID = applicationID
	item.Status = entities.ApplicationStatusPending
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := uc.Repository.CreateApplication(ctx, item); err != nil {
		return entities.CampaignApplication{}, err
	}

	logger.Info("campaign application created",
		"event", "campaign_application_created",
		"module", "deal-brokerage/campaign-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
		"channel_id", item.ChannelID,
	)
	return item, nil
}
