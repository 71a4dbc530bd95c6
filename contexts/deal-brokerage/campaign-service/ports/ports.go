package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
)

type CampaignFilter struct {
	AdvertiserID string
	Status       entities.CampaignStatus
}

type Repository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)

	CreateApplication(ctx context.Context, application entities.CampaignApplication) error
	GetApplication(ctx context.Context, applicationID string) (entities.CampaignApplication, error)
	ListApplications(ctx context.Context, campaignID string) ([]entities.CampaignApplication, error)
	ListApplicationsByOwner(ctx context.Context, ownerID string) ([]entities.CampaignApplication, error)
	// UpdateApplication commits only while the stored status still matches
	// expectedStatus; a mismatch returns ErrApplicationDecided.
	UpdateApplication(ctx context.Context, application entities.CampaignApplication, expectedStatus entities.ApplicationStatus) error
	HasPendingApplication(ctx context.Context, campaignID, channelID string) (bool, error)
}

// DealIntakeRequest carries everything the deal engine needs to open a deal
// from an accepted application. The advertiser is the deal's applicant; the
// channel owner is resolved from the channel record on the other side.
type DealIntakeRequest struct {
	AdvertiserID  string
	ChannelID     string
	CampaignID    string
	ApplicationID string
	PriceTON      decimal.Decimal
}

// DealIntake opens a deal in the deal engine. Acceptance rolls back when it
// fails, so implementations must not leave a deal behind on error.
type DealIntake interface {
	CreateDeal(ctx context.Context, request DealIntakeRequest) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
