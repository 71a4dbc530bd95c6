package services

import (
	"errors"
	"testing"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

func TestNextStateLegalEdge(t *testing.T) {
	next, err := NextState(entities.DealStatePending, entities.ActionAccept)
	if err != nil {
		t.Fatalf("accept from pending failed: %v", err)
	}
	if next != entities.DealStateAwaitingPayment {
		t.Fatalf("expected awaiting_payment, got %s", next)
	}
}

func TestNextStateReplayIsStale(t *testing.T) {
	// The deal already sits where accept would land: a replayed command, not
	// an illegal one.
	_, err := NextState(entities.DealStateAwaitingPayment, entities.ActionAccept)
	if !errors.Is(err, domainerrors.ErrStaleState) {
		t.Fatalf("expected stale state error, got %v", err)
	}
}

func TestNextStateIllegalEdgeListsAllowed(t *testing.T) {
	_, err := NextState(entities.DealStateDrafting, entities.ActionMarkPaid)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}

	var transitionErr *domainerrors.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %T", err)
	}
	if len(transitionErr.Allowed) != 1 || transitionErr.Allowed[0] != entities.ActionSubmitDraft {
		t.Fatalf("expected allowed=[submit_draft], got %v", transitionErr.Allowed)
	}
}

func TestNextStateTerminalStatesAbsorb(t *testing.T) {
	for _, state := range []entities.DealState{entities.DealStateRejected, entities.DealStateCompleted} {
		for _, action := range []entities.DealAction{
			entities.ActionAccept, entities.ActionMarkPaid, entities.ActionSubmitDraft,
			entities.ActionApproveDraft, entities.ActionPublish, entities.ActionExpire,
		} {
			if _, err := NextState(state, action); err == nil {
				t.Fatalf("expected %s from %s to fail", action, state)
			}
		}
	}
}

func TestAuthorize(t *testing.T) {
	deal := entities.Deal{
		OwnerID:     "owner-1",
		ApplicantID: "applicant-1",
	}

	if err := Authorize(deal, "owner-1", entities.ActionAccept); err != nil {
		t.Fatalf("owner accept should be allowed: %v", err)
	}
	if err := Authorize(deal, "applicant-1", entities.ActionMarkPaid); err != nil {
		t.Fatalf("applicant mark_paid should be allowed: %v", err)
	}

	if err := Authorize(deal, "applicant-1", entities.ActionAccept); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("applicant accept should be forbidden, got %v", err)
	}
	if err := Authorize(deal, "owner-1", entities.ActionApproveDraft); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("owner approve_draft should be forbidden, got %v", err)
	}
	if err := Authorize(deal, "stranger", entities.ActionReject); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("stranger should be forbidden, got %v", err)
	}
	if err := Authorize(deal, "owner-1", entities.ActionPublish); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("publish is a system action, got %v", err)
	}
}

func TestResolveRoles(t *testing.T) {
	deal := entities.Deal{OwnerID: "u1", ApplicantID: "u2"}

	if roles := ResolveRoles(deal, "u1"); !roles.Owner || roles.Applicant {
		t.Fatalf("expected owner only, got %+v", roles)
	}
	if roles := ResolveRoles(deal, "u2"); roles.Owner || !roles.Applicant {
		t.Fatalf("expected applicant only, got %+v", roles)
	}
	if roles := ResolveRoles(deal, "u3"); !roles.None() {
		t.Fatalf("expected no roles, got %+v", roles)
	}
	if roles := ResolveRoles(deal, ""); !roles.None() {
		t.Fatalf("expected no roles for empty user, got %+v", roles)
	}
}
