package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/deal-service/adapters/memory"
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

// competingRepository fires a rival command between a use case's revision
// read and its deal commit, forcing the wrapped caller to lose the
// compare-and-swap.
type competingRepository struct {
	ports.Repository
	compete func()
	fired   bool
}

func (r *competingRepository) ListCreativeRevisions(ctx context.Context, dealID string) ([]entities.CreativeRevision, error) {
	items, err := r.Repository.ListCreativeRevisions(ctx, dealID)
	r.fire()
	return items, err
}

func (r *competingRepository) LatestCreativeRevision(ctx context.Context, dealID string) (entities.CreativeRevision, bool, error) {
	latest, found, err := r.Repository.LatestCreativeRevision(ctx, dealID)
	r.fire()
	return latest, found, err
}

func (r *competingRepository) fire() {
	if r.fired || r.compete == nil {
		return
	}
	r.fired = true
	r.compete()
}

func seedDeal(t *testing.T, store *memory.Store, state entities.DealState) entities.Deal {
	t.Helper()
	now := store.Now()
	deal := entities.Deal{
		DealID:         "deal-1",
		OwnerID:        "owner-1",
		ApplicantID:    "adv-1",
		ChannelID:      "channel-1",
		AdFormatID:     "format-1",
		DealType:       entities.DealTypeChannelDirect,
		PriceTON:       decimal.NewFromInt(20),
		State:          state,
		PaymentStatus:  entities.PaymentStatusConfirmed,
		CreativeStatus: entities.CreativeStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateDeal(context.Background(), deal); err != nil {
		t.Fatalf("seed deal failed: %v", err)
	}
	return deal
}

func TestSubmitDraftLoserLeavesNoRevision(t *testing.T) {
	store := memory.NewStore(nil, nil)
	base := time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedDeal(t, store, entities.DealStateDrafting)
	ctx := context.Background()

	winner := SubmitDraftUseCase{Repository: store, Clock: store, IDGen: store}
	loser := SubmitDraftUseCase{
		Repository: &competingRepository{
			Repository: store,
			compete: func() {
				if _, err := winner.Execute(ctx, SubmitDraftCommand{
					DealID:            "deal-1",
					ActorID:           "owner-1",
					Content:           "winner draft",
					ScheduledPostTime: base.Add(time.Hour),
				}); err != nil {
					t.Fatalf("competing submit failed: %v", err)
				}
			},
		},
		Clock: store,
		IDGen: store,
	}

	_, err := loser.Execute(ctx, SubmitDraftCommand{
		DealID:            "deal-1",
		ActorID:           "owner-1",
		Content:           "loser draft",
		ScheduledPostTime: base.Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state for the losing submit, got %v", err)
	}

	revisions, err := store.ListCreativeRevisions(ctx, "deal-1")
	if err != nil {
		t.Fatalf("list revisions failed: %v", err)
	}
	if len(revisions) != 1 {
		t.Fatalf("losing submit must leave no revision behind, got %d rows", len(revisions))
	}
	if revisions[0].Version != 1 || revisions[0].Content != "winner draft" {
		t.Fatalf("unexpected surviving revision: %+v", revisions[0])
	}

	deal, err := store.GetDeal(ctx, "deal-1")
	if err != nil {
		t.Fatalf("get deal failed: %v", err)
	}
	if deal.State != entities.DealStateReviewing || deal.PostContent != "winner draft" {
		t.Fatalf("unexpected deal after race: state=%s content=%q", deal.State, deal.PostContent)
	}
}

func TestReviewDraftLoserMutatesNoRevision(t *testing.T) {
	store := memory.NewStore(nil, nil)
	base := time.Date(2026, time.July, 2, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedDeal(t, store, entities.DealStateReviewing)
	ctx := context.Background()

	if err := store.AddCreativeRevision(ctx, entities.CreativeRevision{
		RevisionID:  "rev-1",
		DealID:      "deal-1",
		Version:     1,
		Content:     "submitted draft",
		Status:      entities.CreativeStatusSubmitted,
		SubmittedBy: "owner-1",
		CreatedAt:   base,
	}); err != nil {
		t.Fatalf("seed revision failed: %v", err)
	}

	winner := ReviewDraftUseCase{Repository: store, Clock: store}
	loser := ReviewDraftUseCase{
		Repository: &competingRepository{
			Repository: store,
			compete: func() {
				if _, err := winner.Execute(ctx, ReviewDraftCommand{
					DealID:   "deal-1",
					ActorID:  "adv-1",
					Approved: true,
				}); err != nil {
					t.Fatalf("competing approve failed: %v", err)
				}
			},
		},
		Clock: store,
	}

	_, err := loser.Execute(ctx, ReviewDraftCommand{
		DealID:     "deal-1",
		ActorID:    "adv-1",
		Approved:   false,
		EditReason: "rework the hook",
	})
	if !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state for the losing review, got %v", err)
	}

	latest, found, err := store.LatestCreativeRevision(ctx, "deal-1")
	if err != nil || !found {
		t.Fatalf("latest revision lookup failed: found=%v err=%v", found, err)
	}
	if latest.Status != entities.CreativeStatusApproved || latest.Feedback != "" {
		t.Fatalf("losing review must not touch the revision, got %+v", latest)
	}

	deal, err := store.GetDeal(ctx, "deal-1")
	if err != nil {
		t.Fatalf("get deal failed: %v", err)
	}
	if deal.State != entities.DealStateScheduled {
		t.Fatalf("expected winner's approval to stand, got %s", deal.State)
	}
}
