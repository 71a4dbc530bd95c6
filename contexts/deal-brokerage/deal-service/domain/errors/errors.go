package errors

import (
	"errors"
	"fmt"
	"strings"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
)

var (
	ErrDealNotFound      = errors.New("deal not found")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrAdFormatNotFound  = errors.New("ad format not found")
	ErrChannelNotActive  = errors.New("channel is not active")
	ErrOwnChannelDeal    = errors.New("cannot open a deal against your own channel")
	ErrDuplicateDeal     = errors.New("an active deal already exists for this negotiation")
	ErrForbidden         = errors.New("actor has no role on this deal")
	ErrInvalidTransition = errors.New("action is not valid for the current deal state")
	ErrStaleState        = errors.New("deal state changed since the command was issued")
	ErrValidation        = errors.New("missing or invalid field for this action")
	ErrPaymentUnverified = errors.New("escrow payment not verified on chain")
	ErrPostUnverified    = errors.New("published post could not be verified")
	ErrExternalService   = errors.New("external verification service unavailable")
)

// TransitionError reports an illegal action together with the actions that
// are legal from the deal's current state, so a client can self-correct.
// errors.Is(err, ErrInvalidTransition) matches.
type TransitionError struct {
	State   entities.DealState
	Action  entities.DealAction
	Allowed []entities.DealAction
}

func (e *TransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, action := range e.Allowed {
		allowed = append(allowed, string(action))
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("cannot %s a deal in state %q: state is terminal", e.Action, e.State)
	}
	return fmt.Sprintf("cannot %s a deal in state %q: allowed actions are %s",
		e.Action, e.State, strings.Join(allowed, ", "))
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func NewTransitionError(state entities.DealState, action entities.DealAction) *TransitionError {
	return &TransitionError{
		State:   state,
		Action:  action,
		Allowed: entities.AllowedActions(state),
	}
}
