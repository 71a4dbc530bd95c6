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

const staleRejectionReason = "system: timeout due to inactivity"

// StaleSweepJob rejects deals that sat in pending or awaiting_payment past
// their timeout. Expiry is an ordinary table edge, so the sweep cannot touch
// deals in any other state.
type StaleSweepJob struct {
	Repository ports.Repository
	Clock      ports.Clock
	BatchSize  int
	Logger     *slog.Logger
}

func (j StaleSweepJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	stale, err := j.Repository.ListStale(ctx, now, limit)
	if err != nil {
		return err
	}

	for _, deal := range stale {
		next, err := services.NextState(deal.State, entities.ActionExpire)
		if err != nil {
			continue
		}

		expected := deal.State
		deal.State = next
		deal.RejectionReason = staleRejectionReason
		deal.UpdatedAt = now
		if err := j.Repository.UpdateDeal(ctx, deal, expected); err != nil {
			if errors.Is(err, domainerrors.ErrStaleState) {
				continue
			}
			return err
		}
		metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionExpire)).Inc()

		logger.Info("stale deal rejected",
			"event", "deal_expired",
			"module", "deal-brokerage/deal-service",
			"layer", "worker",
			"deal_id", deal.DealID,
			"previous_state", string(expected),
		)
	}
	return nil
}
