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

type ReviewDraftCommand struct {
	DealID     string
	ActorID    string
	Approved   bool
	EditReason string
}

// ReviewDraftUseCase is the applicant's half of the creative review cycle.
// Approval schedules the post; a rejection must carry a reason and routes
// the deal back to drafting without discarding the submitted revision.
type ReviewDraftUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ReviewDraftUseCase) Execute(ctx context.Context, cmd ReviewDraftCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	action := entities.ActionApproveDraft
	if !cmd.Approved {
		action = entities.ActionRequestEdits
	}

	editReason := strings.TrimSpace(cmd.EditReason)
	if !cmd.Approved && editReason == "" {
		return entities.Deal{}, domainerrors.ErrValidation
	}

	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, action); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, action)
	if err != nil {
		return entities.Deal{}, err
	}

	now := uc.Clock.Now().UTC()
	latest, found, err := uc.Repository.LatestCreativeRevision(ctx, deal.DealID)
	if err != nil {
		return entities.Deal{}, err
	}

	expected := deal.State
	deal.State = next
	deal.UpdatedAt = now
	if cmd.Approved {
		deal.CreativeStatus = entities.CreativeStatusApproved
		deal.CreativeApprovedAt = &now
		if found {
			latest.Status = entities.CreativeStatusApproved
		}
	} else {
		deal.CreativeStatus = entities.CreativeStatusEditRequested
		deal.EditRequestReason = editReason
		if found {
			latest.Status = entities.CreativeStatusEditRequested
			latest.Feedback = editReason
		}
	}

	// The CAS is the commit point; the revision status flip follows only
	// when the deal row is won, so a losing reviewer mutates nothing.
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(action)).Inc()
	if found {
		if err := uc.Repository.UpdateCreativeRevision(ctx, latest); err != nil {
			return entities.Deal{}, err
		}
	}

	logger.Info("draft reviewed",
		"event", "deal_draft_reviewed",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
		"approved", cmd.Approved,
	)
	return deal, nil
}
