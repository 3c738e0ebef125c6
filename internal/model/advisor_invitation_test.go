package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to InvitationStatus
		allowed  bool
	}{
		{InvitationDraft, InvitationSent, true},
		{InvitationDraft, InvitationViewed, false},
		{InvitationDraft, InvitationCompleted, false},
		{InvitationSent, InvitationViewed, true},
		{InvitationSent, InvitationCompleted, true},
		{InvitationSent, InvitationDeclined, true},
		{InvitationSent, InvitationExpired, true},
		{InvitationSent, InvitationDraft, false},
		{InvitationViewed, InvitationCompleted, true},
		{InvitationViewed, InvitationSent, false},
		{InvitationCompleted, InvitationDeclined, false},
		{InvitationDeclined, InvitationCompleted, false},
		{InvitationExpired, InvitationSent, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestInvitationStatusMetadataExhaustive(t *testing.T) {
	statuses := []InvitationStatus{
		InvitationDraft, InvitationSent, InvitationViewed,
		InvitationCompleted, InvitationDeclined, InvitationExpired,
	}

	for _, s := range statuses {
		assert.Truef(t, s.Valid(), "status %s missing metadata", s)
		assert.NotEmptyf(t, s.Label(), "status %s missing label", s)
	}

	assert.False(t, InvitationStatus("bogus").Valid())
}

func TestTerminalStatesAcceptNoReminders(t *testing.T) {
	assert.True(t, InvitationSent.AcceptsReminders())
	assert.True(t, InvitationViewed.AcceptsReminders())

	for _, s := range []InvitationStatus{InvitationDraft, InvitationCompleted, InvitationDeclined, InvitationExpired} {
		assert.Falsef(t, s.AcceptsReminders(), "status %s should not accept reminders", s)
	}
}

func TestRelationshipTypeMetadata(t *testing.T) {
	types := []RelationshipType{
		RelationshipManager, RelationshipColleague, RelationshipMentor,
		RelationshipFriend, RelationshipFamily, RelationshipClient,
		RelationshipSponsor, RelationshipPeer, RelationshipOther,
	}

	for _, rt := range types {
		assert.True(t, rt.Valid())
		assert.NotEmpty(t, rt.Label())
		assert.Greater(t, rt.CredibilityWeight(), 0.0)
		assert.LessOrEqual(t, rt.CredibilityWeight(), 1.0)
	}

	assert.False(t, RelationshipType("acquaintance").Valid())
}

func TestExperimentStatusTransitions(t *testing.T) {
	assert.True(t, ExperimentPlanned.CanTransitionTo(ExperimentActive))
	assert.True(t, ExperimentActive.CanTransitionTo(ExperimentPaused))
	assert.True(t, ExperimentPaused.CanTransitionTo(ExperimentActive))
	assert.True(t, ExperimentActive.CanTransitionTo(ExperimentCompleted))

	assert.False(t, ExperimentPlanned.CanTransitionTo(ExperimentCompleted))
	assert.False(t, ExperimentCompleted.CanTransitionTo(ExperimentActive))
	assert.False(t, ExperimentCancelled.CanTransitionTo(ExperimentActive))

	assert.True(t, ExperimentCompleted.Terminal())
	assert.True(t, ExperimentCancelled.Terminal())
	assert.False(t, ExperimentPaused.Terminal())
}
