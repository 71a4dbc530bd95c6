package httpadapter

import (
	"context"
	"log/slog"

	"adbroker/contexts/deal-brokerage/channel-registry/application/queries"
	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
	httptransport "adbroker/contexts/deal-brokerage/channel-registry/transport/http"
)

type Handler struct {
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) GetChannelHandler(ctx context.Context, channelID string) (httptransport.GetChannelResponse, error) {
	item, err := h.Queries.GetChannel(ctx, channelID)
	if err != nil {
		return httptransport.GetChannelResponse{}, err
	}
	return httptransport.GetChannelResponse{
		Channel: mapChannel(item),
	}, nil
}

func (h Handler) ListChannelsHandler(ctx context.Context, ownerID string, status string) (httptransport.ListChannelsResponse, error) {
	items, err := h.Queries.ListChannels(ctx, ownerID, entities.ChannelStatus(status))
	if err != nil {
		return httptransport.ListChannelsResponse{}, err
	}
	result := make([]httptransport.ChannelDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapChannel(item))
	}
	return httptransport.ListChannelsResponse{Items: result}, nil
}

func (h Handler) ListAdFormatsHandler(ctx context.Context, channelID string) (httptransport.ListAdFormatsResponse, error) {
	items, err := h.Queries.ListAdFormats(ctx, channelID)
	if err != nil {
		return httptransport.ListAdFormatsResponse{}, err
	}
	result := make([]httptransport.AdFormatDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapAdFormat(item))
	}
	return httptransport.ListAdFormatsResponse{Items: result}, nil
}

func mapChannel(item entities.Channel) httptransport.ChannelDTO {
	return httptransport.ChannelDTO{
		ChannelID:         item.ChannelID,
		OwnerID:           item.OwnerID,
		TelegramChannelID: item.TelegramChannelID,
		Title:             item.Title,
		Username:          item.Username,
		Description:       item.Description,
		SubscriberCount:   item.SubscriberCount,
		AvgPostReach:      item.AvgPostReach,
		Status:            string(item.Status),
	}
}

func mapAdFormat(item entities.AdFormat) httptransport.AdFormatDTO {
	return httptransport.AdFormatDTO{
		AdFormatID:  item.AdFormatID,
		ChannelID:   item.ChannelID,
		Name:        item.Name,
		Description: item.Description,
		PriceTON:    item.PriceTON.String(),
	}
}
