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

// PublishSweepJob moves scheduled deals whose slot has arrived to published.
// It is the only component that transitions a deal without a human action.
// Each deal still goes through the state machine and commits via the same
// compare-and-swap, so a racing command simply makes this sweep skip the deal.
type PublishSweepJob struct {
	Repository ports.Repository
	Channels   ports.ChannelDirectory
	Publisher  ports.PostPublisher
	Clock      ports.Clock
	BatchSize  int
	Logger     *slog.Logger
}

func (j PublishSweepJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := j.Repository.ListDuePublish(ctx, now, limit)
	if err != nil {
		logger.Error("publish sweep list failed",
			"event", "deal_publish_sweep_list_failed",
			"module", "deal-brokerage/deal-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, deal := range due {
		next, err := services.NextState(deal.State, entities.ActionPublish)
		if err != nil {
			continue
		}
		channel, err := j.Channels.GetChannel(ctx, deal.ChannelID)
		if err != nil {
			logger.Error("publish sweep channel lookup failed",
				"event", "deal_publish_channel_failed",
				"module", "deal-brokerage/deal-service",
				"layer", "worker",
				"deal_id", deal.DealID,
				"error", err.Error(),
			)
			continue
		}
		postLink, err := j.Publisher.Publish(ctx, channel, deal.PostContent)
		if err != nil {
			logger.Error("publish sweep post failed",
				"event", "deal_publish_failed",
				"module", "deal-brokerage/deal-service",
				"layer", "worker",
				"deal_id", deal.DealID,
				"error", err.Error(),
			)
			continue
		}

		expected := deal.State
		deal.State = next
		deal.PostLink = postLink
		deal.ActualPostTime = &now
		deal.UpdatedAt = now
		if err := j.Repository.UpdateDeal(ctx, deal, expected); err != nil {
			if errors.Is(err, domainerrors.ErrStaleState) {
				continue
			}
			return err
		}
		metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionPublish)).Inc()

		logger.Info("deal published",
			"event", "deal_published",
			"module", "deal-brokerage/deal-service",
			"layer", "worker",
			"deal_id", deal.DealID,
			"post_link", postLink,
		)
	}
	return nil
}
