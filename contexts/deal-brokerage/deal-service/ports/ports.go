package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
)

type DealFilter struct {
	PartyID   string
	ChannelID string
	State     entities.DealState
}

// Repository is the durable deal store. UpdateDeal is the single write path
// for live deals: it commits the full field set only while the stored state
// still equals expectedState, and reports ErrStaleState otherwise. No other
// method writes the state column.
type Repository interface {
	CreateDeal(ctx context.Context, deal entities.Deal) error
	GetDeal(ctx context.Context, dealID string) (entities.Deal, error)
	ListDeals(ctx context.Context, filter DealFilter) ([]entities.Deal, error)
	UpdateDeal(ctx context.Context, deal entities.Deal, expectedState entities.DealState) error

	HasActiveDirectDeal(ctx context.Context, channelID, adFormatID, applicantID string) (bool, error)
	HasDealForApplication(ctx context.Context, applicationID string) (bool, error)

	AddCreativeRevision(ctx context.Context, revision entities.CreativeRevision) error
	ListCreativeRevisions(ctx context.Context, dealID string) ([]entities.CreativeRevision, error)
	UpdateCreativeRevision(ctx context.Context, revision entities.CreativeRevision) error
	LatestCreativeRevision(ctx context.Context, dealID string) (entities.CreativeRevision, bool, error)

	ListDuePublish(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error)
	ListDueCompletion(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error)
	ListStale(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error)
}

// ChannelRef is the read-only projection of a channel the deal core needs.
type ChannelRef struct {
	ChannelID         string
	OwnerID           string
	TelegramChannelID int64
	Title             string
	Username          string
	Status            string
}

func (c ChannelRef) Active() bool {
	return c.Status == "active"
}

type AdFormatRef struct {
	AdFormatID string
	ChannelID  string
	Name       string
	PriceTON   decimal.Decimal
}

// ChannelDirectory resolves channels and price quotes. The deal core reads
// it as a guard; it never mutates channel records.
type ChannelDirectory interface {
	GetChannel(ctx context.Context, channelID string) (ChannelRef, error)
	GetAdFormat(ctx context.Context, adFormatID string) (AdFormatRef, error)
}

// EscrowGateway fronts the external chain collaborator. VerifyDeposit is the
// second phase of mark-paid: the applicant asserts payment and the gateway
// re-checks the ledger before the transition commits. Release execution is
// external; RecordRelease only acknowledges it.
type EscrowGateway interface {
	GenerateAddress(ctx context.Context, dealID string) (string, error)
	VerifyDeposit(ctx context.Context, address string, amount decimal.Decimal) (bool, error)
	RecordRelease(ctx context.Context, dealID string, address string) error
}

// PostPublisher places the approved creative on the channel when its slot
// arrives and returns the public post link.
type PostPublisher interface {
	Publish(ctx context.Context, channel ChannelRef, content string) (string, error)
}

// PostVerifier confirms a published post is still reachable at its link.
type PostVerifier interface {
	VerifyPost(ctx context.Context, channel ChannelRef, postLink string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
