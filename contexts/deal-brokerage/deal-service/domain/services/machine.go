package services

import (
	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

// NextState validates an action against the transition table and returns the
// state it commits to. A command replayed after it already landed (the deal
// sits in the action's outcome state) reports ErrStaleState so callers can
// treat it as an idempotent no-op; any other illegal action reports a
// TransitionError listing what is allowed.
func NextState(current entities.DealState, action entities.DealAction) (entities.DealState, error) {
	if to, ok := entities.TargetState(current, action); ok {
		return to, nil
	}
	if outcome, ok := entities.OutcomeState(action); ok && outcome == current {
		return "", domainerrors.ErrStaleState
	}
	return "", domainerrors.NewTransitionError(current, action)
}

// Authorize checks that the caller holds the role the action requires.
// Role resolution happens before the transition table is consulted: a caller
// with no role at all is rejected even for actions that would be illegal
// anyway.
func Authorize(deal entities.Deal, userID string, action entities.DealAction) error {
	roles := ResolveRoles(deal, userID)
	if roles.None() {
		return domainerrors.ErrForbidden
	}
	if !roles.Has(entities.ActorFor(action)) {
		return domainerrors.ErrForbidden
	}
	return nil
}
