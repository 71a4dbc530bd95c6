package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	httptransport "adbroker/contexts/deal-brokerage/deal-service/transport/http"
	"adbroker/internal/platform/metrics"
)

// transitionCount reads the current counter value for one action label. The
// registry is process-global, so assertions compare deltas rather than
// absolute values.
func transitionCount(action string) float64 {
	return testutil.ToFloat64(metrics.DealTransitionsTotal.WithLabelValues(action))
}

func TestDealTransitionCounterTracksCommits(t *testing.T) {
	module, _ := newDealModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateDealHandler(ctx, "adv-1", httptransport.CreateDealRequest{
		ChannelID:  "channel-1",
		AdFormatID: "format-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	acceptBefore := transitionCount("accept")
	if _, err := module.Handler.AcceptDealHandler(ctx, "owner-1", created.Deal.DealID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := transitionCount("accept") - acceptBefore; got != 1 {
		t.Fatalf("expected accept counter delta 1, got %v", got)
	}

	// A replayed accept loses the compare-and-swap and must not count.
	stale := transitionCount("accept")
	if _, err := module.Handler.AcceptDealHandler(ctx, "owner-1", created.Deal.DealID); !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state on replay, got %v", err)
	}
	if got := transitionCount("accept") - stale; got != 0 {
		t.Fatalf("replayed accept must not increment the counter, delta %v", got)
	}

	// A gated transition that never commits must not count either.
	paidBefore := transitionCount("mark_paid")
	if _, err := module.Handler.MarkPaidHandler(ctx, "adv-1", created.Deal.DealID); !errors.Is(err, domainerrors.ErrPaymentUnverified) {
		t.Fatalf("expected payment unverified, got %v", err)
	}
	if got := transitionCount("mark_paid") - paidBefore; got != 0 {
		t.Fatalf("unverified payment must not increment the counter, delta %v", got)
	}
}
