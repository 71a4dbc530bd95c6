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

type AcceptDealCommand struct {
	DealID  string
	ActorID string
}

type RejectDealCommand struct {
	DealID  string
	ActorID string
	Reason  string
}

// DecideDealUseCase handles the owner's pending-stage decision. Accept
// auto-advances through accepted into awaiting_payment: the escrow address is
// generated first and the whole step commits as one compare-and-swap against
// pending.
type DecideDealUseCase struct {
	Repository ports.Repository
	Escrow     ports.EscrowGateway
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc DecideDealUseCase) Accept(ctx context.Context, cmd AcceptDealCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, entities.ActionAccept); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, entities.ActionAccept)
	if err != nil {
		return entities.Deal{}, err
	}

	// External call stays outside the commit; a failure leaves the deal
	// untouched in pending.
	address, err := uc.Escrow.GenerateAddress(ctx, deal.DealID)
	if err != nil {
		return entities.Deal{}, err
	}

	expected := deal.State
	now := uc.Clock.Now().UTC()
	deal.State = next
	deal.EscrowAddress = address
	deal.PaymentStatus = entities.PaymentStatusPending
	deal.UpdatedAt = now
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionAccept)).Inc()

	logger.Info("deal accepted",
		"event", "deal_accepted",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
		"escrow_address", address,
	)
	return deal, nil
}

func (uc DecideDealUseCase) Reject(ctx context.Context, cmd RejectDealCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return entities.Deal{}, domainerrors.ErrValidation
	}

	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, entities.ActionReject); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, entities.ActionReject)
	if err != nil {
		return entities.Deal{}, err
	}

	expected := deal.State
	deal.State = next
	deal.RejectionReason = reason
	deal.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionReject)).Inc()

	logger.Info("deal rejected",
		"event", "deal_rejected",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
	)
	return deal, nil
}
