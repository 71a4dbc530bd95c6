package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	campaignservice "adbroker/contexts/deal-brokerage/campaign-service"
	campaignerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	campaignports "adbroker/contexts/deal-brokerage/campaign-service/ports"
	campaigntransport "adbroker/contexts/deal-brokerage/campaign-service/transport/http"
	dealservice "adbroker/contexts/deal-brokerage/deal-service"
	dealcommands "adbroker/contexts/deal-brokerage/deal-service/application/commands"
	dealerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

// moduleIntake bridges the campaign module to a live deal module, the same
// shape the bootstrap wiring uses.
type moduleIntake struct {
	deals dealservice.Module
}

func (i moduleIntake) CreateDeal(ctx context.Context, req campaignports.DealIntakeRequest) (string, error) {
	deal, err := i.deals.CreateDeal.ExecuteFromApplication(ctx, dealcommands.CreateFromApplicationCommand{
		ApplicantID:   req.AdvertiserID,
		ChannelID:     req.ChannelID,
		CampaignID:    req.CampaignID,
		ApplicationID: req.ApplicationID,
		PriceTON:      req.PriceTON,
	})
	if err != nil {
		return "", err
	}
	return deal.DealID, nil
}

type failingIntake struct {
	err error
}

func (i failingIntake) CreateDeal(context.Context, campaignports.DealIntakeRequest) (string, error) {
	return "", i.err
}

func newCampaignFixture(t *testing.T) (campaignservice.Module, dealservice.Module) {
	t.Helper()
	deals, _ := newDealModule(t)
	campaigns := campaignservice.NewInMemoryModule(moduleIntake{deals: deals}, nil)
	return campaigns, deals
}

func createActiveCampaign(t *testing.T, module campaignservice.Module) string {
	t.Helper()
	created, err := module.Handler.CreateCampaignHandler(context.Background(), "adv-1", campaigntransport.CreateCampaignRequest{
		Title:           "Summer push",
		Brief:           "Promote the summer sale",
		BudgetTON:       "200",
		PricePerPostTON: "25",
		Targeting: campaigntransport.TargetingDTO{
			MinSubscribers: 1000,
			Topics:         []string{"tech"},
		},
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if created.Campaign.Status != "active" {
		t.Fatalf("expected active campaign, got %s", created.Campaign.Status)
	}
	return created.Campaign.CampaignID
}

func applyToCampaign(t *testing.T, module campaignservice.Module, campaignID string) string {
	t.Helper()
	applied, err := module.Handler.ApplyToCampaignHandler(context.Background(), "owner-1", campaignID, campaigntransport.ApplyToCampaignRequest{
		ChannelID: "channel-1",
		Message:   "Audience matches your brief",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return applied.Application.ApplicationID
}

func TestCampaignAcceptOpensDeal(t *testing.T) {
	campaigns, deals := newCampaignFixture(t)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)
	applicationID := applyToCampaign(t, campaigns, campaignID)

	decided, err := campaigns.Handler.AcceptApplicationHandler(ctx, "adv-1", campaignID, applicationID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if decided.Application.Status != "accepted" {
		t.Fatalf("expected accepted, got %s", decided.Application.Status)
	}
	if decided.Application.DealID == "" {
		t.Fatal("expected deal id written back to application")
	}
	// An application carrying no explicit price inherits the campaign rate.
	if decided.Application.ProposedPriceTON != "25" {
		t.Fatalf("expected campaign price on application, got %s", decided.Application.ProposedPriceTON)
	}

	deal, err := deals.Handler.GetDealHandler(ctx, "adv-1", decided.Application.DealID)
	if err != nil {
		t.Fatalf("deal lookup failed: %v", err)
	}
	if deal.Deal.DealType != "campaign_application" || deal.Deal.State != "pending" {
		t.Fatalf("unexpected deal: %+v", deal.Deal)
	}
	if deal.Deal.OwnerID != "owner-1" || deal.Deal.ApplicantID != "adv-1" {
		t.Fatalf("unexpected deal parties: %+v", deal.Deal)
	}
	if deal.Deal.PriceTON != "25" || deal.Deal.ApplicationID != applicationID {
		t.Fatalf("unexpected deal terms: %+v", deal.Deal)
	}
}

func TestCampaignAcceptRollsBackWhenIntakeFails(t *testing.T) {
	intakeErr := errors.New("deal engine offline")
	campaigns := campaignservice.NewInMemoryModule(failingIntake{err: intakeErr}, nil)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)
	applicationID := applyToCampaign(t, campaigns, campaignID)

	_, err := campaigns.Handler.AcceptApplicationHandler(ctx, "adv-1", campaignID, applicationID)
	if !errors.Is(err, campaignerrors.ErrDealIntake) {
		t.Fatalf("expected deal intake error, got %v", err)
	}
	if !errors.Is(err, intakeErr) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	listed, err := campaigns.Handler.ListApplicationsHandler(ctx, "adv-1", campaignID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 1 || listed.Items[0].Status != "pending" {
		t.Fatalf("expected application rolled back to pending, got %+v", listed.Items)
	}

	// The rolled-back application is still decidable.
	rejected, err := campaigns.Handler.RejectApplicationHandler(ctx, "adv-1", campaignID, applicationID)
	if err != nil {
		t.Fatalf("reject after roll back failed: %v", err)
	}
	if rejected.Application.Status != "rejected" {
		t.Fatalf("expected rejected, got %s", rejected.Application.Status)
	}
}

func TestCampaignAcceptSurfacesDealEngineCause(t *testing.T) {
	campaigns, deals := newCampaignFixture(t)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)
	applicationID := applyToCampaign(t, campaigns, campaignID)

	// A deal already opened for this application makes intake refuse a
	// second one; the wrapped cause must stay visible through the campaign
	// layer and the application must roll back.
	if _, err := deals.CreateDeal.ExecuteFromApplication(ctx, dealcommands.CreateFromApplicationCommand{
		ApplicantID:   "adv-1",
		ChannelID:     "channel-1",
		CampaignID:    campaignID,
		ApplicationID: applicationID,
		PriceTON:      decimal.NewFromInt(25),
	}); err != nil {
		t.Fatalf("seeding application deal failed: %v", err)
	}

	_, err := campaigns.Handler.AcceptApplicationHandler(ctx, "adv-1", campaignID, applicationID)
	if !errors.Is(err, campaignerrors.ErrDealIntake) || !errors.Is(err, dealerrors.ErrDuplicateDeal) {
		t.Fatalf("expected intake error wrapping duplicate deal, got %v", err)
	}

	listed, err := campaigns.Handler.ListApplicationsHandler(ctx, "adv-1", campaignID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Items[0].Status != "pending" {
		t.Fatalf("expected roll back to pending, got %s", listed.Items[0].Status)
	}
}

func TestCampaignDecideGuards(t *testing.T) {
	campaigns, _ := newCampaignFixture(t)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)
	applicationID := applyToCampaign(t, campaigns, campaignID)

	if _, err := campaigns.Handler.AcceptApplicationHandler(ctx, "owner-1", campaignID, applicationID); !errors.Is(err, campaignerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-advertiser, got %v", err)
	}

	if _, err := campaigns.Handler.AcceptApplicationHandler(ctx, "adv-1", campaignID, applicationID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := campaigns.Handler.AcceptApplicationHandler(ctx, "adv-1", campaignID, applicationID); !errors.Is(err, campaignerrors.ErrApplicationDecided) {
		t.Fatalf("expected application decided, got %v", err)
	}
	if _, err := campaigns.Handler.RejectApplicationHandler(ctx, "adv-1", campaignID, applicationID); !errors.Is(err, campaignerrors.ErrApplicationDecided) {
		t.Fatalf("expected application decided on reject, got %v", err)
	}
}

func TestCampaignApplyGuards(t *testing.T) {
	campaigns, _ := newCampaignFixture(t)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)

	if _, err := campaigns.Handler.ApplyToCampaignHandler(ctx, "adv-1", campaignID, campaigntransport.ApplyToCampaignRequest{
		ChannelID: "channel-of-advertiser",
	}); !errors.Is(err, campaignerrors.ErrOwnCampaignApplication) {
		t.Fatalf("expected own campaign rejection, got %v", err)
	}

	applyToCampaign(t, campaigns, campaignID)
	if _, err := campaigns.Handler.ApplyToCampaignHandler(ctx, "owner-1", campaignID, campaigntransport.ApplyToCampaignRequest{
		ChannelID: "channel-1",
	}); !errors.Is(err, campaignerrors.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}

	if _, err := campaigns.Handler.ApplyToCampaignHandler(ctx, "owner-1", "no-such-campaign", campaigntransport.ApplyToCampaignRequest{
		ChannelID: "channel-1",
	}); !errors.Is(err, campaignerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

func TestCampaignApplicationVisibility(t *testing.T) {
	campaigns, _ := newCampaignFixture(t)
	ctx := context.Background()

	campaignID := createActiveCampaign(t, campaigns)
	applyToCampaign(t, campaigns, campaignID)

	if _, err := campaigns.Handler.ListApplicationsHandler(ctx, "owner-1", campaignID); !errors.Is(err, campaignerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-advertiser listing, got %v", err)
	}

	mine, err := campaigns.Handler.MyApplicationsHandler(ctx, "owner-1")
	if err != nil {
		t.Fatalf("my applications failed: %v", err)
	}
	if len(mine.Items) != 1 || mine.Items[0].CampaignID != campaignID {
		t.Fatalf("unexpected my applications: %+v", mine.Items)
	}
}
