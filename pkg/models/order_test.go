package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderPending, OrderConfirmed},
		{OrderPending, OrderPaid},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderPaid},
		{OrderPaid, OrderProcessing},
		{OrderPaid, OrderRefunded},
		{OrderProcessing, OrderShipped},
		{OrderShipped, OrderDelivered},
		{OrderDelivered, OrderRefunded},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct{ from, to OrderStatus }{
		{OrderPending, OrderShipped},
		{OrderPaid, OrderPending},
		{OrderShipped, OrderProcessing},
		{OrderDelivered, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderRefunded, OrderPaid},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s must be rejected", tc.from, tc.to)
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderPending.Valid())
	assert.True(t, OrderRefunded.Valid())
	assert.False(t, OrderStatus("misplaced").Valid())
}

func TestApplyStatusStampsPaidAtOnce(t *testing.T) {
	o := &Order{Status: OrderPending}
	require.NoError(t, o.ApplyStatus(OrderPaid))
	require.NotNil(t, o.PaidAt)
	first := *o.PaidAt

	time.Sleep(time.Millisecond)
	require.NoError(t, o.ApplyStatus(OrderProcessing))
	assert.Equal(t, first, *o.PaidAt, "paid_at must not move on later transitions")
}

func TestApplyStatusStampsFulfilledAt(t *testing.T) {
	o := &Order{Status: OrderShipped}
	require.NoError(t, o.ApplyStatus(OrderDelivered))
	assert.NotNil(t, o.FulfilledAt)
}

func TestApplyStatusRejectsIllegalMove(t *testing.T) {
	o := &Order{Status: OrderDelivered}
	err := o.ApplyStatus(OrderProcessing)
	require.Error(t, err)
	assert.Equal(t, OrderDelivered, o.Status)
	assert.Nil(t, o.PaidAt)
}

func TestNewPublicID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewPublicID()
		assert.Regexp(t, `^ord_[0-9a-f]{12}$`, id)
		assert.False(t, seen[id], "public ids must not repeat")
		seen[id] = true
	}
}
