package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.PaymentStatus
		ok       bool
	}{
		{models.StatusPending, models.StatusPaid, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPaid, models.StatusCompleted, true},
		{models.StatusPaid, models.StatusRefunded, true},
		{models.StatusPaid, models.StatusCancelled, true},

		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusPending, models.StatusRefunded, false},
		{models.StatusPaid, models.StatusPending, false},
		{models.StatusCompleted, models.StatusPaid, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusRefunded, models.StatusPaid, false},
	}

	for _, tc := range cases {
		err := tc.from.CanTransition(tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s should be allowed", tc.from, tc.to)
		} else {
			var invErr *models.InvalidTransitionError
			require.ErrorAs(t, err, &invErr, "%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestSameStateTransitionIsNoOp(t *testing.T) {
	for _, s := range []models.PaymentStatus{
		models.StatusPending, models.StatusPaid, models.StatusCompleted,
		models.StatusCancelled, models.StatusRefunded,
	} {
		require.NoError(t, s.CanTransition(s))
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	err := models.StatusPending.CanTransition(models.PaymentStatus("SHIPPED"))
	var invErr *models.InvalidTransitionError
	require.ErrorAs(t, err, &invErr)
	require.False(t, models.PaymentStatus("SHIPPED").Valid())
}

func TestTerminalStates(t *testing.T) {
	require.False(t, models.StatusPending.Terminal())
	require.False(t, models.StatusPaid.Terminal())
	require.True(t, models.StatusCompleted.Terminal())
	require.True(t, models.StatusCancelled.Terminal())
	require.True(t, models.StatusRefunded.Terminal())
}
