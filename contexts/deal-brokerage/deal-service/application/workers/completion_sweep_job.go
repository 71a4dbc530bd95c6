package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "adbroker/contexts/deal-brokerage/deal-service/application"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/domain/services"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
	"adbroker/internal/platform/metrics"
)

// CompletionSweepJob re-verifies published posts once the verification window
// has passed and completes the deal on success. Verification failures are
// retried on the next cycle; the deal stays published.
type CompletionSweepJob struct {
	Repository         ports.Repository
	Channels           ports.ChannelDirectory
	Verifier           ports.PostVerifier
	Escrow             ports.EscrowGateway
	Clock              ports.Clock
	VerificationWindow time.Duration
	BatchSize          int
	Logger             *slog.Logger
}

func (j CompletionSweepJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	window := j.VerificationWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := j.Repository.ListDueCompletion(ctx, now.Add(-window), limit)
	if err != nil {
		return err
	}

	for _, deal := range due {
		next, err := services.NextState(deal.State, entities.ActionVerifyPost)
		if err != nil {
			continue
		}
		channel, err := j.Channels.GetChannel(ctx, deal.ChannelID)
		if err != nil {
			continue
		}
		reachable, err := j.Verifier.VerifyPost(ctx, channel, deal.PostLink)
		if err != nil || !reachable {
			logger.Warn("completion sweep verification pending",
				"event", "deal_completion_pending",
				"module", "deal-brokerage/deal-service",
				"layer", "worker",
				"deal_id", deal.DealID,
			)
			continue
		}
		if err := j.Escrow.RecordRelease(ctx, deal.DealID, deal.EscrowAddress); err != nil {
			continue
		}

		expected := deal.State
		deal.State = next
		deal.PaymentStatus = entities.PaymentStatusReleased
		deal.PostVerifiedAt = &now
		deal.FundsReleasedAt = &now
		deal.UpdatedAt = now
		if err := j.Repository.UpdateDeal(ctx, deal, expected); err != nil {
			if errors.Is(err, domainerrors.ErrStaleState) {
				continue
			}
			return err
		}
		metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionVerifyPost)).Inc()

		logger.Info("deal completed by sweep",
			"event", "deal_completed_by_sweep",
			"module", "deal-brokerage/deal-service",
			"layer", "worker",
			"deal_id", deal.DealID,
		)
	}
	return nil
}
