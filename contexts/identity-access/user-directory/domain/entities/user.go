package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the internal identity behind a Telegram account. Authentication is
// external; this record only maps a telegram id to a stable internal id and
// carries coarse role flags.
type User struct {
	UserID         string
	TelegramID     int64
	Username       string
	FirstName      string
	IsAdvertiser   bool
	IsChannelOwner bool
	BalanceTON     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
