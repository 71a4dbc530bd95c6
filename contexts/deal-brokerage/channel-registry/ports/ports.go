package ports

import (
	"context"

	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
)

type ChannelFilter struct {
	OwnerID string
	Status  entities.ChannelStatus
}

// Repository is read-only from the brokerage's point of view. Channel rows
// are written by the registration flow, which lives outside this system.
type Repository interface {
	GetChannel(ctx context.Context, channelID string) (entities.Channel, error)
	ListChannels(ctx context.Context, filter ChannelFilter) ([]entities.Channel, error)
	GetAdFormat(ctx context.Context, adFormatID string) (entities.AdFormat, error)
	ListAdFormats(ctx context.Context, channelID string) ([]entities.AdFormat, error)
}
