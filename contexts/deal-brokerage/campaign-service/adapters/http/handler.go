package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/campaign-service/application/commands"
	"adbroker/contexts/deal-brokerage/campaign-service/application/queries"
	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	httptransport "adbroker/contexts/deal-brokerage/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign    commands.CreateCampaignUseCase
	ApplyToCampaign   commands.ApplyToCampaignUseCase
	DecideApplication commands.DecideApplicationUseCase
	Queries           queries.QueryUseCase
	Logger            *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	budget, err := parseDecimalField(req.BudgetTON, "budget_ton")
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	pricePerPost, err := parseDecimalField(req.PricePerPostTON, "price_per_post_ton")
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}

	item, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		AdvertiserID:    userID,
		Title:           req.Title,
		Brief:           req.Brief,
		BudgetTON:       budget,
		PricePerPostTON: pricePerPost,
		Targeting: entities.Targeting{
			MinSubscribers: req.Targeting.MinSubscribers,
			Topics:         req.Targeting.Topics,
		},
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		Campaign: mapCampaign(item),
	}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.Queries.GetCampaign(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{
		Campaign: mapCampaign(item),
	}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, advertiserID string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.Queries.ListCampaigns(ctx, advertiserID, entities.CampaignStatus(status))
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{Items: result}, nil
}

func (h Handler) ApplyToCampaignHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	req httptransport.ApplyToCampaignRequest,
) (httptransport.ApplyToCampaignResponse, error) {
	price := decimal.Zero
	if strings.TrimSpace(req.ProposedPriceTON) != "" {
		parsed, err := parseDecimalField(req.ProposedPriceTON, "proposed_price_ton")
		if err != nil {
			return httptransport.ApplyToCampaignResponse{}, err
		}
		price = parsed
	}

	item, err := h.ApplyToCampaign.Execute(ctx, commands.ApplyToCampaignCommand{
		CampaignID:       campaignID,
		ChannelID:        req.ChannelID,
		ChannelOwnerID:   userID,
		ProposedPriceTON: price,
		Message:          req.Message,
	})
	if err != nil {
		return httptransport.ApplyToCampaignResponse{}, err
	}
	return httptransport.ApplyToCampaignResponse{
		Application: mapApplication(item),
	}, nil
}

func (h Handler) ListApplicationsHandler(ctx context.Context, userID string, campaignID string) (httptransport.ListApplicationsResponse, error) {
	items, err := h.Queries.ListApplications(ctx, campaignID, userID)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	result := make([]httptransport.ApplicationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapApplication(item))
	}
	return httptransport.ListApplicationsResponse{Items: result}, nil
}

func (h Handler) MyApplicationsHandler(ctx context.Context, userID string) (httptransport.ListApplicationsResponse, error) {
	items, err := h.Queries.MyApplications(ctx, userID)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	result := make([]httptransport.ApplicationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapApplication(item))
	}
	return httptransport.ListApplicationsResponse{Items: result}, nil
}

func (h Handler) AcceptApplicationHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	applicationID string,
) (httptransport.DecideApplicationResponse, error) {
	item, err := h.DecideApplication.Accept(ctx, commands.DecideApplicationCommand{
		CampaignID:    campaignID,
		ApplicationID: applicationID,
		ActorID:       userID,
	})
	if err != nil {
		return httptransport.DecideApplicationResponse{}, err
	}
	return httptransport.DecideApplicationResponse{
		Application: mapApplication(item),
	}, nil
}

func (h Handler) RejectApplicationHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	applicationID string,
) (httptransport.DecideApplicationResponse, error) {
	item, err := h.DecideApplication.Reject(ctx, commands.DecideApplicationCommand{
		CampaignID:    campaignID,
		ApplicationID: applicationID,
		ActorID:       userID,
	})
	if err != nil {
		return httptransport.DecideApplicationResponse{}, err
	}
	return httptransport.DecideApplicationResponse{
		Application: mapApplication(item),
	}, nil
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	return httptransport.CampaignDTO{
		CampaignID:      item.CampaignID,
		AdvertiserID:    item.AdvertiserID,
		Title:           item.Title,
		Brief:           item.Brief,
		BudgetTON:       item.BudgetTON.String(),
		PricePerPostTON: item.PricePerPostTON.String(),
		Targeting: httptransport.TargetingDTO{
			MinSubscribers: item.Targeting.MinSubscribers,
			Topics:         item.Targeting.Topics,
		},
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapApplication(item entities.CampaignApplication) httptransport.ApplicationDTO {
	dto := httptransport.ApplicationDTO{
		ApplicationID:    item.ApplicationID,
		CampaignID:       item.CampaignID,
		ChannelID:        item.ChannelID,
		ChannelOwnerID:   item.ChannelOwnerID,
		ProposedPriceTON: item.ProposedPriceTON.String(),
		Message:          item.Message,
		Status:           string(item.Status),
		DealID:           item.DealID,
		CreatedAt:        item.CreatedAt.Format(time.RFC3339),
	}
	if item.DecidedAt != nil {
		dto.DecidedAt = item.DecidedAt.Format(time.RFC3339)
	}
	return dto
}

func parseDecimalField(value string, field string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a decimal", domainerrors.ErrValidation, field)
	}
	return parsed, nil
}
