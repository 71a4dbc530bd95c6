package entities

import "sort"

type DealState string
type DealAction string
type DealRole string

const (
	DealStatePending         DealState = "pending"
	DealStateAccepted        DealState = "accepted"
	DealStateAwaitingPayment DealState = "awaiting_payment"
	DealStateDrafting        DealState = "drafting"
	DealStateReviewing       DealState = "reviewing"
	DealStateScheduled       DealState = "scheduled"
	DealStatePublished       DealState = "published"
	DealStateCompleted       DealState = "completed"
	DealStateRejected        DealState = "rejected"

	ActionAccept       DealAction = "accept"
	ActionReject       DealAction = "reject"
	ActionMarkPaid     DealAction = "mark_paid"
	ActionSubmitDraft  DealAction = "submit_draft"
	ActionApproveDraft DealAction = "approve_draft"
	ActionRequestEdits DealAction = "request_edits"
	ActionPublish      DealAction = "publish"
	ActionVerifyPost   DealAction = "verify_post"
	ActionExpire       DealAction = "expire"

	RoleOwner     DealRole = "owner"
	RoleApplicant DealRole = "applicant"
	RoleSystem    DealRole = "system"
)

// transitions is the only place a deal edge is defined. ActionAccept lands
// directly in awaiting_payment: accepted is a transient step that commits
// together with escrow address assignment. ActionPublish and ActionExpire are
// system edges driven by the worker sweeps.
var transitions = map[DealState]map[DealAction]DealState{
	DealStatePending: {
		ActionAccept: DealStateAwaitingPayment,
		ActionReject: DealStateRejected,
		ActionExpire: DealStateRejected,
	},
	DealStateAwaitingPayment: {
		ActionMarkPaid: DealStateDrafting,
		ActionExpire:   DealStateRejected,
	},
	DealStateDrafting: {
		ActionSubmitDraft: DealStateReviewing,
	},
	DealStateReviewing: {
		ActionApproveDraft: DealStateScheduled,
		ActionRequestEdits: DealStateDrafting,
	},
	DealStateScheduled: {
		ActionPublish: DealStatePublished,
	},
	DealStatePublished: {
		ActionVerifyPost: DealStateCompleted,
	},
}

// actionActor maps each action to the single role allowed to perform it.
var actionActor = map[DealAction]DealRole{
	ActionAccept:       RoleOwner,
	ActionReject:       RoleOwner,
	ActionSubmitDraft:  RoleOwner,
	ActionMarkPaid:     RoleApplicant,
	ActionApproveDraft: RoleApplicant,
	ActionRequestEdits: RoleApplicant,
	ActionVerifyPost:   RoleApplicant,
	ActionPublish:      RoleSystem,
	ActionExpire:       RoleSystem,
}

func IsValidState(value DealState) bool {
	switch value {
	case DealStatePending, DealStateAccepted, DealStateAwaitingPayment,
		DealStateDrafting, DealStateReviewing, DealStateScheduled,
		DealStatePublished, DealStateCompleted, DealStateRejected:
		return true
	default:
		return false
	}
}

// TargetState returns the state an action commits to when taken from the
// given state, or false if the edge does not exist.
func TargetState(from DealState, action DealAction) (DealState, bool) {
	edges, ok := transitions[from]
	if !ok {
		return "", false
	}
	to, ok := edges[action]
	return to, ok
}

// OutcomeState returns the state an action always lands in, regardless of
// origin, or false for unknown actions. Used to tell a replayed command
// (already at the outcome) apart from an illegal one.
func OutcomeState(action DealAction) (DealState, bool) {
	for _, edges := range transitions {
		if to, ok := edges[action]; ok {
			return to, true
		}
	}
	return "", false
}

// AllowedActions lists the actions legal from the given state, sorted for
// stable error payloads.
func AllowedActions(from DealState) []DealAction {
	edges := transitions[from]
	actions := make([]DealAction, 0, len(edges))
	for action := range edges {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

func ActorFor(action DealAction) DealRole {
	return actionActor[action]
}
