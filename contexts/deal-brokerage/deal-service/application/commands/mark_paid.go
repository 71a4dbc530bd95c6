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

type MarkPaidCommand struct {
	DealID  string
	ActorID string
}

// MarkPaidUseCase is the escrow/payment gate. The applicant asserts payment;
// the gateway independently re-checks the chain before the transition to
// drafting is allowed to commit. An unverified deposit leaves the deal in
// awaiting_payment.
type MarkPaidUseCase struct {
	Repository ports.Repository
	Escrow     ports.EscrowGateway
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc MarkPaidUseCase) Execute(ctx context.Context, cmd MarkPaidCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, entities.ActionMarkPaid); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, entities.ActionMarkPaid)
	if err != nil {
		return entities.Deal{}, err
	}

	verified, err := uc.Escrow.VerifyDeposit(ctx, deal.EscrowAddress, deal.PriceTON)
	if err != nil {
		return entities.Deal{}, err
	}
	if !verified {
		logger.Info("escrow deposit not verified",
			"event", "deal_payment_unverified",
			"module", "deal-brokerage/deal-service",
			"layer", "application",
			"deal_id", deal.DealID,
			"escrow_address", deal.EscrowAddress,
		)
		return entities.Deal{}, domainerrors.ErrPaymentUnverified
	}

	expected := deal.State
	deal.State = next
	deal.PaymentStatus = entities.PaymentStatusConfirmed
	deal.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionMarkPaid)).Inc()

	logger.Info("escrow deposit confirmed",
		"event", "deal_payment_confirmed",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
	)
	return deal, nil
}
