package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Targeting is the advertiser's constraint set for candidate channels. It is
// advisory: applications from any channel are accepted for review.
type Targeting struct {
	MinSubscribers int64    `json:"min_subscribers,omitempty"`
	Topics         []string `json:"topics,omitempty"`
}

// Campaign is an advertiser's open brief that channel owners apply to.
type Campaign struct {
	CampaignID      string
	AdvertiserID    string
	Title           string
	Brief           string
	BudgetTON       decimal.Decimal
	PricePerPostTON decimal.Decimal
	Targeting       Targeting
	Status          CampaignStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Campaign) ValidateCreate() bool {
	return strings.TrimSpace(c.AdvertiserID) != "" &&
		strings.TrimSpace(c.Title) != "" &&
		!c.BudgetTON.IsNegative() &&
		c.PricePerPostTON.IsPositive()
}

func (c Campaign) AcceptsApplications() bool {
	return c.Status == CampaignStatusActive
}

// CampaignApplication is a channel owner's bid on a campaign. Acceptance
// produces exactly one deal; after a decision the row is immutable except for
// the deal back-reference written in the same acceptance step.
type CampaignApplication struct {
	ApplicationID    string
	CampaignID       string
	ChannelID        string
	ChannelOwnerID   string
	ProposedPriceTON decimal.Decimal
	Message          string
	Status           ApplicationStatus
	DealID           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DecidedAt        *time.Time
}

func (a CampaignApplication) ValidateCreate() bool {
	return strings.TrimSpace(a.CampaignID) != "" &&
		strings.TrimSpace(a.ChannelID) != "" &&
		strings.TrimSpace(a.ChannelOwnerID) != "" &&
		a.ProposedPriceTON.IsPositive()
}

func (a CampaignApplication) Decided() bool {
	return a.Status != ApplicationStatusPending
}
