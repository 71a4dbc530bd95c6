package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/deal-service/application/commands"
	"adbroker/contexts/deal-brokerage/deal-service/application/queries"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	httptransport "adbroker/contexts/deal-brokerage/deal-service/transport/http"
)

type Handler struct {
	CreateDeal  commands.CreateDealUseCase
	DecideDeal  commands.DecideDealUseCase
	MarkPaid    commands.MarkPaidUseCase
	SubmitDraft commands.SubmitDraftUseCase
	ReviewDraft commands.ReviewDraftUseCase
	VerifyPost  commands.VerifyPostUseCase
	Queries     queries.QueryUseCase
	Logger      *slog.Logger
}

func (h Handler) CreateDealHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateDealRequest,
) (httptransport.CreateDealResponse, error) {
	price := decimal.Zero
	if strings.TrimSpace(req.ProposedPriceTON) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(req.ProposedPriceTON))
		if err != nil {
			return httptransport.CreateDealResponse{}, fmt.Errorf("%w: proposed_price_ton must be a decimal", domainerrors.ErrValidation)
		}
		price = parsed
	}

	item, err := h.CreateDeal.Execute(ctx, commands.CreateDealCommand{
		ApplicantID:      userID,
		ChannelID:        req.ChannelID,
		AdFormatID:       req.AdFormatID,
		ProposedPriceTON: price,
	})
	if err != nil {
		return httptransport.CreateDealResponse{}, err
	}
	return httptransport.CreateDealResponse{
		Deal: mapDeal(item),
	}, nil
}

func (h Handler) GetDealHandler(ctx context.Context, userID string, dealID string) (httptransport.GetDealResponse, error) {
	item, err := h.Queries.GetDeal(ctx, dealID, userID)
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{
		Deal: mapDeal(item),
	}, nil
}

func (h Handler) ListMyDealsHandler(ctx context.Context, userID string) (httptransport.ListDealsResponse, error) {
	items, err := h.Queries.ListMyDeals(ctx, userID)
	if err != nil {
		return httptransport.ListDealsResponse{}, err
	}
	result := make([]httptransport.DealDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapDeal(item))
	}
	return httptransport.ListDealsResponse{Items: result}, nil
}

func (h Handler) ListCreativesHandler(ctx context.Context, userID string, dealID string) (httptransport.ListCreativeRevisionsResponse, error) {
	items, err := h.Queries.ListCreativeRevisions(ctx, dealID, userID)
	if err != nil {
		return httptransport.ListCreativeRevisionsResponse{}, err
	}
	result := make([]httptransport.CreativeRevisionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCreativeRevision(item))
	}
	return httptransport.ListCreativeRevisionsResponse{Items: result}, nil
}

func (h Handler) AcceptDealHandler(ctx context.Context, userID string, dealID string) (httptransport.GetDealResponse, error) {
	item, err := h.DecideDeal.Accept(ctx, commands.AcceptDealCommand{
		DealID:  dealID,
		ActorID: userID,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func (h Handler) RejectDealHandler(
	ctx context.Context,
	userID string,
	dealID string,
	req httptransport.RejectDealRequest,
) (httptransport.GetDealResponse, error) {
	item, err := h.DecideDeal.Reject(ctx, commands.RejectDealCommand{
		DealID:  dealID,
		ActorID: userID,
		Reason:  req.Reason,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func (h Handler) MarkPaidHandler(ctx context.Context, userID string, dealID string) (httptransport.GetDealResponse, error) {
	item, err := h.MarkPaid.Execute(ctx, commands.MarkPaidCommand{
		DealID:  dealID,
		ActorID: userID,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func (h Handler) SubmitDraftHandler(
	ctx context.Context,
	userID string,
	dealID string,
	req httptransport.SubmitDraftRequest,
) (httptransport.GetDealResponse, error) {
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledPostTime))
	if err != nil {
		return httptransport.GetDealResponse{}, fmt.Errorf("%w: scheduled_post_time must be RFC3339", domainerrors.ErrValidation)
	}

	item, err := h.SubmitDraft.Execute(ctx, commands.SubmitDraftCommand{
		DealID:            dealID,
		ActorID:           userID,
		Content:           req.Content,
		ScheduledPostTime: scheduledAt,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func (h Handler) ReviewDraftHandler(
	ctx context.Context,
	userID string,
	dealID string,
	req httptransport.ReviewDraftRequest,
) (httptransport.GetDealResponse, error) {
	item, err := h.ReviewDraft.Execute(ctx, commands.ReviewDraftCommand{
		DealID:     dealID,
		ActorID:    userID,
		Approved:   req.Approved,
		EditReason: req.EditReason,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func (h Handler) VerifyPostHandler(ctx context.Context, userID string, dealID string) (httptransport.GetDealResponse, error) {
	item, err := h.VerifyPost.Execute(ctx, commands.VerifyPostCommand{
		DealID:  dealID,
		ActorID: userID,
	})
	if err != nil {
		return httptransport.GetDealResponse{}, err
	}
	return httptransport.GetDealResponse{Deal: mapDeal(item)}, nil
}

func mapDeal(item entities.Deal) httptransport.DealDTO {
	dto := httptransport.DealDTO{
		DealID:        item.DealID,
		OwnerID:       item.OwnerID,
		ApplicantID:   item.ApplicantID,
		ChannelID:     item.ChannelID,
		AdFormatID:    item.AdFormatID,
		CampaignID:    item.CampaignID,
		ApplicationID: item.ApplicationID,
		DealType:      string(item.DealType),
		PriceTON:      item.PriceTON.String(),
		State:         string(item.State),

		PostContent: item.PostContent,
		PostLink:    item.PostLink,

		CreativeStatus:    string(item.CreativeStatus),
		EditRequestReason: item.EditRequestReason,
		RejectionReason:   item.RejectionReason,

		EscrowAddress: item.EscrowAddress,
		PaymentStatus: string(item.PaymentStatus),

		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ScheduledPostTime != nil {
		dto.ScheduledPostTime = item.ScheduledPostTime.Format(time.RFC3339)
	}
	if item.ActualPostTime != nil {
		dto.ActualPostTime = item.ActualPostTime.Format(time.RFC3339)
	}
	if item.PostVerifiedAt != nil {
		dto.PostVerifiedAt = item.PostVerifiedAt.Format(time.RFC3339)
	}
	if item.FundsReleasedAt != nil {
		dto.FundsReleasedAt = item.FundsReleasedAt.Format(time.RFC3339)
	}
	for _, action := range entities.AllowedActions(item.State) {
		dto.AllowedActions = append(dto.AllowedActions, string(action))
	}
	return dto
}

func mapCreativeRevision(item entities.CreativeRevision) httptransport.CreativeRevisionDTO {
	return httptransport.CreativeRevisionDTO{
		RevisionID:  item.RevisionID,
		DealID:      item.DealID,
		Version:     item.Version,
		Content:     item.Content,
		Status:      string(item.Status),
		Feedback:    item.Feedback,
		SubmittedBy: item.SubmittedBy,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
}
