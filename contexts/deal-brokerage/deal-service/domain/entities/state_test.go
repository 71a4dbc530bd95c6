package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetState(t *testing.T) {
	cases := []struct {
		name   string
		from   DealState
		action DealAction
		want   DealState
		ok     bool
	}{
		{"accept from pending", DealStatePending, ActionAccept, DealStateAwaitingPayment, true},
		{"reject from pending", DealStatePending, ActionReject, DealStateRejected, true},
		{"expire from pending", DealStatePending, ActionExpire, DealStateRejected, true},
		{"mark paid from awaiting payment", DealStateAwaitingPayment, ActionMarkPaid, DealStateDrafting, true},
		{"expire from awaiting payment", DealStateAwaitingPayment, ActionExpire, DealStateRejected, true},
		{"submit draft from drafting", DealStateDrafting, ActionSubmitDraft, DealStateReviewing, true},
		{"approve draft from reviewing", DealStateReviewing, ActionApproveDraft, DealStateScheduled, true},
		{"request edits from reviewing", DealStateReviewing, ActionRequestEdits, DealStateDrafting, true},
		{"publish from scheduled", DealStateScheduled, ActionPublish, DealStatePublished, true},
		{"verify post from published", DealStatePublished, ActionVerifyPost, DealStateCompleted, true},
		{"mark paid from pending is illegal", DealStatePending, ActionMarkPaid, "", false},
		{"accept from drafting is illegal", DealStateDrafting, ActionAccept, "", false},
		{"expire from drafting is illegal", DealStateDrafting, ActionExpire, "", false},
		{"nothing leaves rejected", DealStateRejected, ActionAccept, "", false},
		{"nothing leaves completed", DealStateCompleted, ActionVerifyPost, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TargetState(tc.from, tc.action)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOutcomeState(t *testing.T) {
	got, ok := OutcomeState(ActionAccept)
	require.True(t, ok)
	assert.Equal(t, DealStateAwaitingPayment, got)

	got, ok = OutcomeState(ActionVerifyPost)
	require.True(t, ok)
	assert.Equal(t, DealStateCompleted, got)

	_, ok = OutcomeState(DealAction("teleport"))
	assert.False(t, ok)
}

func TestAllowedActionsSorted(t *testing.T) {
	assert.Equal(t,
		[]DealAction{ActionAccept, ActionExpire, ActionReject},
		AllowedActions(DealStatePending),
	)
	assert.Equal(t,
		[]DealAction{ActionApproveDraft, ActionRequestEdits},
		AllowedActions(DealStateReviewing),
	)
	assert.Empty(t, AllowedActions(DealStateRejected))
	assert.Empty(t, AllowedActions(DealStateCompleted))
}

func TestActorFor(t *testing.T) {
	assert.Equal(t, RoleOwner, ActorFor(ActionAccept))
	assert.Equal(t, RoleOwner, ActorFor(ActionSubmitDraft))
	assert.Equal(t, RoleApplicant, ActorFor(ActionMarkPaid))
	assert.Equal(t, RoleApplicant, ActorFor(ActionVerifyPost))
	assert.Equal(t, RoleSystem, ActorFor(ActionPublish))
	assert.Equal(t, RoleSystem, ActorFor(ActionExpire))
}
