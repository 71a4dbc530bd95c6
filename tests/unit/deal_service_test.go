package unit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	dealservice "adbroker/contexts/deal-brokerage/deal-service"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
	httptransport "adbroker/contexts/deal-brokerage/deal-service/transport/http"
)

func newDealModule(t *testing.T) (dealservice.Module, time.Time) {
	t.Helper()
	module := dealservice.NewInMemoryModule(
		[]ports.ChannelRef{
			{ChannelID: "channel-1", OwnerID: "owner-1", TelegramChannelID: -100123, Title: "Tech News", Username: "technews", Status: "active"},
			{ChannelID: "channel-dark", OwnerID: "owner-2", Username: "darkpool", Status: "inactive"},
		},
		[]ports.AdFormatRef{
			{AdFormatID: "format-1", ChannelID: "channel-1", Name: "1/24", PriceTON: decimal.NewFromInt(20)},
		},
		nil,
	)
	base := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(base)
	return module, base
}

func TestDealFullLifecycle(t *testing.T) {
	module, base := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	deal := created.Deal
	if deal.State != "pending" || deal.OwnerID != "owner-1" || deal.ApplicantID != "adv-1" {
		t.Fatalf("unexpected created deal: %+v", deal)
	}
	if deal.PriceTON != "20" {
		t.Fatalf("expected price quoted from ad format, got %s", deal.PriceTON)
	}

	accepted, err := module.Handler.AcceptDealHandler(ctx, "owner-1", deal.DealID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Deal.State != "awaiting_payment" {
		t.Fatalf("expected awaiting_payment, got %s", accepted.Deal.State)
	}
	if !strings.HasPrefix(accepted.Deal.EscrowAddress, "0:") {
		t.Fatalf("expected escrow address, got %q", accepted.Deal.EscrowAddress)
	}

	// Asserting payment before the deposit lands must not advance the deal.
	if _, err := module.Handler.MarkPaidHandler(ctx, "adv-1", deal.DealID); !errors.Is(err, domainerrors.ErrPaymentUnverified) {
		t.Fatalf("expected payment unverified, got %v", err)
	}

	module.Escrow.Deposit(accepted.Deal.EscrowAddress, decimal.NewFromInt(20))
	paid, err := module.Handler.MarkPaidHandler(ctx, "adv-1", deal.DealID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Deal.State != "drafting" || paid.Deal.PaymentStatus != "confirmed" {
		t.Fatalf("expected drafting/confirmed, got %s/%s", paid.Deal.State, paid.Deal.PaymentStatus)
	}

	reviewing, err := module.Handler.SubmitDraftHandler(ctx, "owner-1", deal.DealID, httptransport.SubmitDraftRequest{
		Content:           "Try the new widget, link in bio",
		ScheduledPostTime: base.Add(2 * time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("submit draft failed: %v", err)
	}
	if reviewing.Deal.State != "reviewing" {
		t.Fatalf("expected reviewing, got %s", reviewing.Deal.State)
	}

	scheduled, err := module.Handler.ReviewDraftHandler(ctx, "adv-1", deal.DealID, httptransport.ReviewDraftRequest{
		Approved: true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if scheduled.Deal.State != "scheduled" || scheduled.Deal.CreativeStatus != "approved" {
		t.Fatalf("expected scheduled/approved, got %s/%s", scheduled.Deal.State, scheduled.Deal.CreativeStatus)
	}

	module.Store.SetNow(base.Add(3 * time.Hour))
	if err := module.PublishSweep.RunOnce(ctx); err != nil {
		t.Fatalf("publish sweep failed: %v", err)
	}
	published, err := module.Handler.GetDealHandler(ctx, "owner-1", deal.DealID)
	if err != nil {
		t.Fatalf("get after publish failed: %v", err)
	}
	if published.Deal.State != "published" {
		t.Fatalf("expected published, got %s", published.Deal.State)
	}
	if !strings.HasPrefix(published.Deal.PostLink, "https://t.me/technews/") {
		t.Fatalf("unexpected post link %q", published.Deal.PostLink)
	}

	completed, err := module.Handler.VerifyPostHandler(ctx, "adv-1", deal.DealID)
	if err != nil {
		t.Fatalf("verify post failed: %v", err)
	}
	if completed.Deal.State != "completed" || completed.Deal.PaymentStatus != "released" {
		t.Fatalf("expected completed/released, got %s/%s", completed.Deal.State, completed.Deal.PaymentStatus)
	}
	if completed.Deal.FundsReleasedAt == "" {
		t.Fatal("expected funds release timestamp")
	}
	if !module.Escrow.Released(deal.DealID) {
		t.Fatal("expected escrow release recorded")
	}
}

func TestDealAcceptReplayIsStale(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := module.Handler.AcceptDealHandler(ctx, "owner-1", created.Deal.DealID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := module.Handler.AcceptDealHandler(ctx, "owner-1", created.Deal.DealID); !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state on replayed accept, got %v", err)
	}
}

func TestDealAuthorizationGuards(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dealID := created.Deal.DealID

	// The applicant holds no accept right; a stranger cannot even read.
	if _, err := module.Handler.AcceptDealHandler(ctx, "adv-1", dealID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for applicant accept, got %v", err)
	}
	if _, err := module.Handler.GetDealHandler(ctx, "stranger", dealID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger read, got %v", err)
	}
	if _, err := module.Handler.GetDealHandler(ctx, "owner-1", "no-such-deal"); !errors.Is(err, domainerrors.ErrDealNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDealRejectIsTerminal(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dealID := created.Deal.DealID

	if _, err := module.Handler.RejectDealHandler(ctx, "owner-1", dealID, httptransport.RejectDealRequest{}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}

	rejected, err := module.Handler.RejectDealHandler(ctx, "owner-1", dealID, httptransport.RejectDealRequest{
		Reason: "slot already sold",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Deal.State != "rejected" || rejected.Deal.RejectionReason != "slot already sold" {
		t.Fatalf("unexpected rejected deal: %+v", rejected.Deal)
	}
	if len(rejected.Deal.AllowedActions) != 0 {
		t.Fatalf("terminal deal must offer no actions, got %v", rejected.Deal.AllowedActions)
	}

	if _, err := module.Handler.AcceptDealHandler(ctx, "owner-1", dealID); err == nil {
		t.Fatal("expected accept after reject to fail")
	}
}

func TestDealCreateGuards(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	if _, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID: "channel-dark",
	}); !errors.Is(err, domainerrors.ErrChannelNotActive) {
		t.Fatalf("expected channel not active, got %v", err)
	}

	if _, err := module.Handler.CreateDealHandler(ctx, "owner-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	}); !errors.Is(err, domainerrors.ErrOwnChannelDeal) {
		t.Fatalf("expected own channel rejection, got %v", err)
	}

	if _, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:        "channel-1",
		ProposedPriceTON: "not-a-number",
	}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected price validation error, got %v", err)
	}

	if _, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	}); !errors.Is(err, domainerrors.ErrDuplicateDeal) {
		t.Fatalf("expected duplicate deal, got %v", err)
	}
}

func TestDealRevisionLoopKeepsHistory(t *testing.T) {
	module, base := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dealID := created.Deal.DealID

	accepted, err := module.Handler.AcceptDealHandler(ctx, "owner-1", dealID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	module.Escrow.Deposit(accepted.Deal.EscrowAddress, decimal.NewFromInt(20))
	if _, err := module.Handler.MarkPaidHandler(ctx, "adv-1", dealID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	schedule := base.Add(4 * time.Hour).Format(time.RFC3339)
	if _, err := module.Handler.SubmitDraftHandler(ctx, "owner-1", dealID, httptransport.SubmitDraftRequest{
		Content:           "first draft",
		ScheduledPostTime: schedule,
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	back, err := module.Handler.ReviewDraftHandler(ctx, "adv-1", dealID, httptransport.ReviewDraftRequest{
		Approved:   false,
		EditReason: "tone down the claims",
	})
	if err != nil {
		t.Fatalf("request edits failed: %v", err)
	}
	if back.Deal.State != "drafting" || back.Deal.EditRequestReason != "tone down the claims" {
		t.Fatalf("unexpected deal after edit request: %+v", back.Deal)
	}

	if _, err := module.Handler.SubmitDraftHandler(ctx, "owner-1", dealID, httptransport.SubmitDraftRequest{
		Content:           "second draft, softer tone",
		ScheduledPostTime: schedule,
	}); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	revisions, err := module.Handler.ListCreativesHandler(ctx, "adv-1", dealID)
	if err != nil {
		t.Fatalf("list revisions failed: %v", err)
	}
	if len(revisions.Items) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revisions.Items))
	}
	if revisions.Items[0].Version != 1 || revisions.Items[0].Status != "edit_requested" {
		t.Fatalf("unexpected first revision: %+v", revisions.Items[0])
	}
	if revisions.Items[0].Feedback != "tone down the claims" {
		t.Fatalf("expected feedback preserved, got %q", revisions.Items[0].Feedback)
	}
	if revisions.Items[1].Version != 2 || revisions.Items[1].Status != "submitted" {
		t.Fatalf("unexpected second revision: %+v", revisions.Items[1])
	}
}

func TestListMyDealsReturnsBothSides(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	if _, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, party := range []string{"owner-1", "adv-1"} {
		listed, err := module.Handler.ListMyDealsHandler(ctx, party)
		if err != nil {
			t.Fatalf("list for %s failed: %v", party, err)
		}
		if len(listed.Items) != 1 {
			t.Fatalf("expected 1 deal for %s, got %d", party, len(listed.Items))
		}
	}

	listed, err := module.Handler.ListMyDealsHandler(ctx, "stranger")
	if err != nil {
		t.Fatalf("list for stranger failed: %v", err)
	}
	if len(listed.Items) != 0 {
		t.Fatalf("expected no deals for stranger, got %d", len(listed.Items))
	}
}

func TestEscrowOutageKeepsDealAwaitingPayment(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	accepted, err := module.Handler.AcceptDealHandler(ctx, "owner-1", created.Deal.DealID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	module.Escrow.SetDown(true)
	if _, err := module.Handler.MarkPaidHandler(ctx, "adv-1", created.Deal.DealID); !errors.Is(err, domainerrors.ErrExternalService) {
		t.Fatalf("expected external service error during outage, got %v", err)
	}
	current, err := module.Handler.GetDealHandler(ctx, "adv-1", created.Deal.DealID)
	if err != nil {
		t.Fatalf("get after outage failed: %v", err)
	}
	if current.Deal.State != "awaiting_payment" || current.Deal.PaymentStatus != "pending" {
		t.Fatalf("outage must leave the deal untouched, got %s/%s", current.Deal.State, current.Deal.PaymentStatus)
	}

	// Retry after the gateway recovers.
	module.Escrow.SetDown(false)
	module.Escrow.Deposit(accepted.Deal.EscrowAddress, decimal.NewFromInt(20))
	paid, err := module.Handler.MarkPaidHandler(ctx, "adv-1", created.Deal.DealID)
	if err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if paid.Deal.State != "drafting" {
		t.Fatalf("expected drafting after retry, got %s", paid.Deal.State)
	}
}
