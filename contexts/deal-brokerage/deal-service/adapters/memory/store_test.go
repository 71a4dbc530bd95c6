package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

func newDeal(id string, state entities.DealState) entities.Deal {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	return entities.Deal{
		DealID:      id,
		OwnerID:     "owner-1",
		ApplicantID: "advertiser-1",
		ChannelID:   "channel-1",
		AdFormatID:  "format-1",
		DealType:    entities.DealTypeChannelDirect,
		PriceTON:    decimal.NewFromInt(25),
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestUpdateDealRejectsStaleState(t *testing.T) {
	store := NewStore(nil, nil)
	deal := newDeal("deal-1", entities.DealStatePending)
	if err := store.CreateDeal(context.Background(), deal); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deal.State = entities.DealStateAwaitingPayment
	if err := store.UpdateDeal(context.Background(), deal, entities.DealStatePending); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// A second writer still holding the pending snapshot must lose.
	deal.State = entities.DealStateRejected
	err := store.UpdateDeal(context.Background(), deal, entities.DealStatePending)
	if !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state, got %v", err)
	}

	stored, err := store.GetDeal(context.Background(), "deal-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.State != entities.DealStateAwaitingPayment {
		t.Fatalf("expected awaiting_payment to survive, got %s", stored.State)
	}
}

func TestUpdateDealUnknownDeal(t *testing.T) {
	store := NewStore(nil, nil)
	err := store.UpdateDeal(context.Background(), newDeal("missing", entities.DealStatePending), entities.DealStatePending)
	if !errors.Is(err, domainerrors.ErrDealNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListDuePublishFiltersByScheduleAndState(t *testing.T) {
	store := NewStore(nil, nil)
	threshold := time.Date(2026, time.March, 12, 18, 0, 0, 0, time.UTC)

	due := newDeal("deal-due", entities.DealStateScheduled)
	dueAt := threshold.Add(-time.Minute)
	due.ScheduledPostTime = &dueAt

	future := newDeal("deal-future", entities.DealStateScheduled)
	futureAt := threshold.Add(time.Hour)
	future.ScheduledPostTime = &futureAt

	wrongState := newDeal("deal-drafting", entities.DealStateDrafting)
	wrongState.ScheduledPostTime = &dueAt

	for _, deal := range []entities.Deal{due, future, wrongState} {
		if err := store.CreateDeal(context.Background(), deal); err != nil {
			t.Fatalf("create %s failed: %v", deal.DealID, err)
		}
	}

	items, err := store.ListDuePublish(context.Background(), threshold, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].DealID != "deal-due" {
		t.Fatalf("expected only deal-due, got %+v", items)
	}
}

func TestListDueCompletionUsesActualPostTime(t *testing.T) {
	store := NewStore(nil, nil)
	threshold := time.Date(2026, time.March, 13, 12, 0, 0, 0, time.UTC)

	ready := newDeal("deal-ready", entities.DealStatePublished)
	postedAt := threshold.Add(-25 * time.Hour)
	ready.ActualPostTime = &postedAt

	early := newDeal("deal-early", entities.DealStatePublished)
	recentAt := threshold.Add(time.Hour)
	early.ActualPostTime = &recentAt

	for _, deal := range []entities.Deal{ready, early} {
		if err := store.CreateDeal(context.Background(), deal); err != nil {
			t.Fatalf("create %s failed: %v", deal.DealID, err)
		}
	}

	items, err := store.ListDueCompletion(context.Background(), threshold, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].DealID != "deal-ready" {
		t.Fatalf("expected only deal-ready, got %+v", items)
	}
}

func TestListStaleOnlyEarlyStates(t *testing.T) {
	store := NewStore(nil, nil)
	threshold := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	expired := threshold.Add(-time.Hour)

	pending := newDeal("deal-pending", entities.DealStatePending)
	pending.TimeoutAt = &expired

	awaiting := newDeal("deal-awaiting", entities.DealStateAwaitingPayment)
	awaiting.TimeoutAt = &expired

	drafting := newDeal("deal-drafting", entities.DealStateDrafting)
	drafting.TimeoutAt = &expired

	fresh := newDeal("deal-fresh", entities.DealStatePending)
	later := threshold.Add(time.Hour)
	fresh.TimeoutAt = &later

	for _, deal := range []entities.Deal{pending, awaiting, drafting, fresh} {
		if err := store.CreateDeal(context.Background(), deal); err != nil {
			t.Fatalf("create %s failed: %v", deal.DealID, err)
		}
	}

	items, err := store.ListStale(context.Background(), threshold, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 stale deals, got %d", len(items))
	}
	for _, item := range items {
		if item.DealID != "deal-pending" && item.DealID != "deal-awaiting" {
			t.Fatalf("unexpected stale deal %s in state %s", item.DealID, item.State)
		}
	}
}

func TestLatestCreativeRevisionPicksHighestVersion(t *testing.T) {
	store := NewStore(nil, nil)
	base := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	for version := 1; version <= 3; version++ {
		revision := entities.CreativeRevision{
			RevisionID:  fmt.Sprintf("rev-%d", version),
			DealID:      "deal-1",
			Version:     version,
			Content:     "draft",
			Status:      entities.CreativeStatusSubmitted,
			SubmittedBy: "owner-1",
			CreatedAt:   base.Add(time.Duration(version) * time.Minute),
		}
		if err := store.AddCreativeRevision(context.Background(), revision); err != nil {
			t.Fatalf("add revision %d failed: %v", version, err)
		}
	}

	latest, found, err := store.LatestCreativeRevision(context.Background(), "deal-1")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if !found || latest.Version != 3 {
		t.Fatalf("expected version 3, got found=%v version=%d", found, latest.Version)
	}

	_, found, err = store.LatestCreativeRevision(context.Background(), "deal-without-drafts")
	if err != nil {
		t.Fatalf("latest on empty failed: %v", err)
	}
	if found {
		t.Fatal("expected no revision for unknown deal")
	}
}

func TestHasActiveDirectDealIgnoresTerminalDeals(t *testing.T) {
	store := NewStore(nil, nil)

	rejected := newDeal("deal-rejected", entities.DealStateRejected)
	if err := store.CreateDeal(context.Background(), rejected); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	active, err := store.HasActiveDirectDeal(context.Background(), "channel-1", "format-1", "advertiser-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if active {
		t.Fatal("rejected deal must not block a new request")
	}

	live := newDeal("deal-live", entities.DealStateDrafting)
	if err := store.CreateDeal(context.Background(), live); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	active, err = store.HasActiveDirectDeal(context.Background(), "channel-1", "format-1", "advertiser-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !active {
		t.Fatal("live deal for the same slot must block a duplicate")
	}
}

func TestChannelDirectoryLookups(t *testing.T) {
	store := NewStore(
		[]ports.ChannelRef{{ChannelID: "channel-1", OwnerID: "owner-1", Username: "technews", Status: "active"}},
		[]ports.AdFormatRef{{AdFormatID: "format-1", ChannelID: "channel-1", Name: "1/24", PriceTON: decimal.NewFromInt(20)}},
	)

	channel, err := store.GetChannel(context.Background(), "channel-1")
	if err != nil {
		t.Fatalf("channel lookup failed: %v", err)
	}
	if !channel.Active() {
		t.Fatal("expected active channel")
	}

	if _, err := store.GetChannel(context.Background(), "channel-x"); !errors.Is(err, domainerrors.ErrChannelNotFound) {
		t.Fatalf("expected channel not found, got %v", err)
	}
	if _, err := store.GetAdFormat(context.Background(), "format-x"); !errors.Is(err, domainerrors.ErrAdFormatNotFound) {
		t.Fatalf("expected format not found, got %v", err)
	}
}

func TestSetNowPinsClock(t *testing.T) {
	store := NewStore(nil, nil)
	pinned := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	store.SetNow(pinned)
	if got := store.Now(); !got.Equal(pinned) {
		t.Fatalf("expected pinned clock %s, got %s", pinned, got)
	}
}
