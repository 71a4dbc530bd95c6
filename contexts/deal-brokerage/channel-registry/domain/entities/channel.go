package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChannelStatus string

const (
	ChannelStatusActive   ChannelStatus = "active"
	ChannelStatusInactive ChannelStatus = "inactive"
)

// Channel is a Telegram channel listed for advertising. Registration and
// ownership verification happen outside the brokerage core; this registry
// only reads the records.
type Channel struct {
	ChannelID         string
	OwnerID           string
	TelegramChannelID int64
	Title             string
	Username          string
	Description       string
	SubscriberCount   int64
	AvgPostReach      int64
	Status            ChannelStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c Channel) Active() bool {
	return c.Status == ChannelStatusActive
}

// AdFormat is a priced placement slot a channel sells, for example "1 post,
// 24h pinned".
type AdFormat struct {
	AdFormatID  string
	ChannelID   string
	Name        string
	Description string
	PriceTON    decimal.Decimal
	CreatedAt   time.Time
}
