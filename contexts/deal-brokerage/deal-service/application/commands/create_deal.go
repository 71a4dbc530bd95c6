package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	application "adbroker/contexts/deal-brokerage/deal-service/application"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

// dealTimeout is how long a deal may sit without progress before the stale
// sweep rejects it.
const dealTimeout = 72 * time.Hour

type CreateDealCommand struct {
	ApplicantID      string
	ChannelID        string
	AdFormatID       string
	ProposedPriceTON decimal.Decimal
}

type CreateFromApplicationCommand struct {
	ApplicantID   string
	ChannelID     string
	CampaignID    string
	ApplicationID string
	PriceTON      decimal.Decimal
}

// CreateDealUseCase is the intake service. Both entry points converge on the
// same pending deal shape; the state machine owns everything after that.
type CreateDealUseCase struct {
	Repository ports.Repository
	Channels   ports.ChannelDirectory
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute creates a deal from a channel + ad-format selection. The caller is
// the advertiser (applicant); the channel owner becomes the deal owner.
func (uc CreateDealUseCase) Execute(ctx context.Context, cmd CreateDealCommand) (entities.Deal, error) {
	channel, err := uc.Channels.GetChannel(ctx, strings.TrimSpace(cmd.ChannelID))
	if err != nil {
		return entities.Deal{}, err
	}
	if !channel.Active() {
		return entities.Deal{}, domainerrors.ErrChannelNotActive
	}
	if channel.OwnerID == strings.TrimSpace(cmd.ApplicantID) {
		return entities.Deal{}, domainerrors.ErrOwnChannelDeal
	}

	price := cmd.ProposedPriceTON
	formatID := strings.TrimSpace(cmd.AdFormatID)
	if formatID != "" {
		format, err := uc.Channels.GetAdFormat(ctx, formatID)
		if err != nil {
			return entities.Deal{}, err
		}
		if format.ChannelID != channel.ChannelID {
			return entities.Deal{}, domainerrors.ErrAdFormatNotFound
		}
		price = format.PriceTON
	}

	exists, err := uc.Repository.HasActiveDirectDeal(ctx, channel.ChannelID, formatID, strings.TrimSpace(cmd.ApplicantID))
	if err != nil {
		return entities.Deal{}, err
	}
	if exists {
		return entities.Deal{}, domainerrors.ErrDuplicateDeal
	}

	deal := entities.Deal{
		OwnerID:     channel.OwnerID,
		ApplicantID: strings.TrimSpace(cmd.ApplicantID),
		ChannelID:   channel.ChannelID,
		AdFormatID:  formatID,
		DealType:    entities.DealTypeChannelDirect,
		PriceTON:    price,
	}
	return uc.create(ctx, deal)
}

// ExecuteFromApplication creates the deal an accepted campaign application
// produces. The campaign service calls this inside its accept command; a
// failure here rolls the application back.
func (uc CreateDealUseCase) ExecuteFromApplication(ctx context.Context, cmd CreateFromApplicationCommand) (entities.Deal, error) {
	channel, err := uc.Channels.GetChannel(ctx, strings.TrimSpace(cmd.ChannelID))
	if err != nil {
		return entities.Deal{}, err
	}
	if !channel.Active() {
		return entities.Deal{}, domainerrors.ErrChannelNotActive
	}

	exists, err := uc.Repository.HasDealForApplication(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return entities.Deal{}, err
	}
	if exists {
		return entities.Deal{}, domainerrors.ErrDuplicateDeal
	}

	deal := entities.Deal{
		OwnerID:       channel.OwnerID,
		ApplicantID:   strings.TrimSpace(cmd.ApplicantID),
		ChannelID:     channel.ChannelID,
		CampaignID:    strings.TrimSpace(cmd.CampaignID),
		ApplicationID: strings.TrimSpace(cmd.ApplicationID),
		DealType:      entities.DealTypeCampaignApplication,
		PriceTON:      cmd.PriceTON,
	}
	return uc.create(ctx, deal)
}

func (uc CreateDealUseCase) create(ctx context.Context, deal entities.Deal) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !deal.ValidateCreate() {
		return entities.Deal{}, domainerrors.ErrValidation
	}

	dealID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Deal{}, err
	}
	now := uc.Clock.Now().UTC()
	timeoutAt := now.Add(dealTimeout)

	deal.DealID = dealID
	deal.State = entities.DealStatePending
	deal.PaymentStatus = entities.PaymentStatusPending
	deal.CreativeStatus = entities.CreativeStatusDraft
	deal.CreatedAt = now
	deal.UpdatedAt = now
	deal.TimeoutAt = &timeoutAt

	if err := uc.Repository.CreateDeal(ctx, deal); err != nil {
		return entities.Deal{}, err
	}

	logger.Info("deal created",
		"event", "deal_created",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
		"deal_type", string(deal.DealType),
		"channel_id", deal.ChannelID,
	)
	return deal, nil
}
