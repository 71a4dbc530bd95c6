package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DealType string
type PaymentStatus string
type CreativeStatus string

const (
	DealTypeChannelDirect       DealType = "channel_direct"
	DealTypeCampaignApplication DealType = "campaign_application"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusReleased  PaymentStatus = "released"

	CreativeStatusDraft         CreativeStatus = "draft"
	CreativeStatusSubmitted     CreativeStatus = "submitted"
	CreativeStatusEditRequested CreativeStatus = "edit_requested"
	CreativeStatusApproved      CreativeStatus = "approved"
)

// Deal is one advertising transaction between a channel owner and an
// advertiser. OwnerID is always the channel-owning party, ApplicantID the
// advertiser counterparty; the pairing never changes after creation.
type Deal struct {
	DealID        string
	OwnerID       string
	ApplicantID   string
	ChannelID     string
	AdFormatID    string
	CampaignID    string
	ApplicationID string
	DealType      DealType
	PriceTON      decimal.Decimal
	State         DealState

	PostContent       string
	ScheduledPostTime *time.Time
	ActualPostTime    *time.Time
	PostLink          string

	CreativeStatus    CreativeStatus
	EditRequestReason string
	RejectionReason   string

	EscrowAddress string
	PaymentStatus PaymentStatus

	CreatedAt           time.Time
	UpdatedAt           time.Time
	CreativeSubmittedAt *time.Time
	CreativeApprovedAt  *time.Time
	PostVerifiedAt      *time.Time
	FundsReleasedAt     *time.Time
	TimeoutAt           *time.Time
}

func (d Deal) ValidateCreate() bool {
	return strings.TrimSpace(d.OwnerID) != "" &&
		strings.TrimSpace(d.ApplicantID) != "" &&
		strings.TrimSpace(d.ChannelID) != "" &&
		d.OwnerID != d.ApplicantID &&
		d.PriceTON.IsPositive()
}

func (d Deal) IsTerminal() bool {
	return d.State == DealStateRejected || d.State == DealStateCompleted
}

// CreativeRevision is one submitted draft. Revisions are append-only so a
// revision loop never discards earlier content.
type CreativeRevision struct {
	RevisionID  string
	DealID      string
	Version     int
	Content     string
	Status      CreativeStatus
	Feedback    string
	SubmittedBy string
	CreatedAt   time.Time
}
