package queries

import (
	"context"
	"log/slog"
	"strings"

	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
	"adbroker/contexts/deal-brokerage/channel-registry/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetChannel(ctx context.Context, channelID string) (entities.Channel, error) {
	return uc.Repository.GetChannel(ctx, strings.TrimSpace(channelID))
}

func (uc QueryUseCase) ListChannels(ctx context.Context, ownerID string, status entities.ChannelStatus) ([]entities.Channel, error) {
	return uc.Repository.ListChannels(ctx, ports.ChannelFilter{
		OwnerID: strings.TrimSpace(ownerID),
		Status:  status,
	})
}

func (uc QueryUseCase) ListAdFormats(ctx context.Context, channelID string) ([]entities.AdFormat, error) {
	if _, err := uc.Repository.GetChannel(ctx, strings.TrimSpace(channelID)); err != nil {
		return nil, err
	}
	return uc.Repository.ListAdFormats(ctx, strings.TrimSpace(channelID))
}
