package commands

import (
	"context"
	"log/slog"
	"strings"

	application "adbroker/contexts/deal-brokerage/deal-service/application"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/domain/services"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
	"adbroker/internal/platform/metrics"
)

type VerifyPostCommand struct {
	DealID  string
	ActorID string
}

// VerifyPostUseCase closes the deal. The applicant confirms the post is live;
// the verifier re-checks reachability before completion commits and funds
// release is recorded. Actual transfer execution belongs to the external
// settlement collaborator.
type VerifyPostUseCase struct {
	Repository ports.Repository
	Channels   ports.ChannelDirectory
	Verifier   ports.PostVerifier
	Escrow     ports.EscrowGateway
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc VerifyPostUseCase) Execute(ctx context.Context, cmd VerifyPostCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, entities.ActionVerifyPost); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, entities.ActionVerifyPost)
	if err != nil {
		return entities.Deal{}, err
	}

	channel, err := uc.Channels.GetChannel(ctx, deal.ChannelID)
	if err != nil {
		return entities.Deal{}, err
	}
	reachable, err := uc.Verifier.VerifyPost(ctx, channel, deal.PostLink)
	if err != nil {
		return entities.Deal{}, err
	}
	if !reachable {
		return entities.Deal{}, domainerrors.ErrPostUnverified
	}

	if err := uc.Escrow.RecordRelease(ctx, deal.DealID, deal.EscrowAddress); err != nil {
		return entities.Deal{}, err
	}

	expected := deal.State
	now := uc.Clock.Now().UTC()
	deal.State = next
	deal.PaymentStatus = entities.PaymentStatusReleased
	deal.PostVerifiedAt = &now
	deal.FundsReleasedAt = &now
	deal.UpdatedAt = now
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionVerifyPost)).Inc()

	logger.Info("post verified and deal completed",
		"event", "deal_completed",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
	)
	return deal, nil
}
