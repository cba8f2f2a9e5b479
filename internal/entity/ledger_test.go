package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusRankOrder(t *testing.T) {
	assert.Less(t, StatusPending.Rank(), StatusSent.Rank())
	assert.Less(t, StatusSent.Rank(), StatusDelivered.Rank())
	assert.Less(t, StatusDelivered.Rank(), StatusRead.Rank())
}

func TestParseDeliveryStatus(t *testing.T) {
	s, ok := ParseDeliveryStatus("delivered")
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, s)

	_, ok = ParseDeliveryStatus("banana")
	assert.False(t, ok)
}

// TestTransitionNeverRegresses - status nunca anda pra trás
func TestTransitionNeverRegresses(t *testing.T) {
	msg := &CampaignMessage{Status: StatusDelivered}

	result := msg.Transition(StatusSent)

	assert.False(t, result.Applied)
	assert.Equal(t, StatusDelivered, msg.Status)
	assert.Equal(t, StatusDelivered, result.Previous)
}

func TestTransitionAdvances(t *testing.T) {
	msg := &CampaignMessage{Status: StatusSent}

	result := msg.Transition(StatusDelivered)

	assert.True(t, result.Applied)
	assert.Equal(t, StatusSent, result.Previous)
	assert.Equal(t, StatusDelivered, result.Next)
	assert.Equal(t, StatusDelivered, msg.Status)
}

// TestTransitionFailedAlwaysApplies - failed ignora o rank atual
func TestTransitionFailedAlwaysApplies(t *testing.T) {
	msg := &CampaignMessage{Status: StatusRead}

	result := msg.Transition(StatusFailed)

	assert.True(t, result.Applied)
	assert.Equal(t, StatusRead, result.Previous)
	assert.Equal(t, StatusFailed, msg.Status)
}

// TestTransitionIdempotent - aplicar o mesmo status duas vezes é no-op
func TestTransitionIdempotent(t *testing.T) {
	msg := &CampaignMessage{Status: StatusSent}

	first := msg.Transition(StatusDelivered)
	second := msg.Transition(StatusDelivered)

	assert.True(t, first.Applied)
	assert.False(t, second.Applied)
	assert.Equal(t, StatusDelivered, msg.Status)
}

func TestTransitionFailedTwice(t *testing.T) {
	msg := &CampaignMessage{Status: StatusSent}

	first := msg.Transition(StatusFailed)
	second := msg.Transition(StatusFailed)

	assert.True(t, first.Applied)
	assert.False(t, second.Applied)
}

func TestTransitionFullTable(t *testing.T) {
	cases := []struct {
		current DeliveryStatus
		next    DeliveryStatus
		applied bool
	}{
		{StatusPending, StatusSent, true},
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusRead, true},
		{StatusSent, StatusSent, false},
		{StatusSent, StatusRead, true},
		{StatusDelivered, StatusPending, false},
		{StatusRead, StatusDelivered, false},
		{StatusRead, StatusFailed, true},
		{StatusFailed, StatusDelivered, false},
		{StatusFailed, StatusRead, false},
	}

	for _, tc := range cases {
		msg := &CampaignMessage{Status: tc.current}
		result := msg.Transition(tc.next)
		assert.Equal(t, tc.applied, result.Applied, "%s -> %s", tc.current, tc.next)
	}
}
