package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "adbroker/contexts/deal-brokerage/deal-service/application"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/domain/services"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
	"adbroker/internal/platform/metrics"
)

type SubmitDraftCommand struct {
	DealID            string
	ActorID           string
	Content           string
	ScheduledPostTime time.Time
}

// SubmitDraftUseCase records an owner-authored creative and moves the deal to
// review. Each submission appends a new revision so earlier drafts stay
// visible through a revision loop.
type SubmitDraftUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitDraftUseCase) Execute(ctx context.Context, cmd SubmitDraftCommand) (entities.Deal, error) {
	logger := application.ResolveLogger(uc.Logger)
	content := strings.TrimSpace(cmd.Content)
	if content == "" || cmd.ScheduledPostTime.IsZero() {
		return entities.Deal{}, domainerrors.ErrValidation
	}

	deal, err := uc.Repository.GetDeal(ctx, strings.TrimSpace(cmd.DealID))
	if err != nil {
		return entities.Deal{}, err
	}
	if err := services.Authorize(deal, cmd.ActorID, entities.ActionSubmitDraft); err != nil {
		return entities.Deal{}, err
	}
	next, err := services.NextState(deal.State, entities.ActionSubmitDraft)
	if err != nil {
		return entities.Deal{}, err
	}

	now := uc.Clock.Now().UTC()
	scheduledAt := cmd.ScheduledPostTime.UTC()
	if !scheduledAt.After(now) {
		return entities.Deal{}, domainerrors.ErrValidation
	}

	revisions, err := uc.Repository.ListCreativeRevisions(ctx, deal.DealID)
	if err != nil {
		return entities.Deal{}, err
	}
	revisionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Deal{}, err
	}
	revision := entities.CreativeRevision{
		RevisionID:  revisionID,
		DealID:      deal.DealID,
		Version:     len(revisions) + 1,
		Content:     content,
		Status:      entities.CreativeStatusSubmitted,
		SubmittedBy: strings.TrimSpace(cmd.ActorID),
		CreatedAt:   now,
	}

	// The CAS is the commit point. The revision is appended only once the
	// deal row is won, so a racing submission that loses leaves no orphan
	// revision and no duplicated version number behind.
	expected := deal.State
	deal.State = next
	deal.PostContent = content
	deal.ScheduledPostTime = &scheduledAt
	deal.CreativeStatus = entities.CreativeStatusSubmitted
	deal.CreativeSubmittedAt = &now
	deal.EditRequestReason = ""
	deal.UpdatedAt = now
	if err := uc.Repository.UpdateDeal(ctx, deal, expected); err != nil {
		return entities.Deal{}, err
	}
	metrics.DealTransitionsTotal.WithLabelValues(string(entities.ActionSubmitDraft)).Inc()
	if err := uc.Repository.AddCreativeRevision(ctx, revision); err != nil {
		return entities.Deal{}, err
	}

	logger.Info("draft submitted",
		"event", "deal_draft_submitted",
		"module", "deal-brokerage/deal-service",
		"layer", "application",
		"deal_id", deal.DealID,
		"revision", revision.Version,
	)
	return deal, nil
}
