package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

func TestUpdateOrderStatusLegalTransition(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	result := checkoutFixture(t, env, 5, 1)

	order, err := env.svc.UpdateOrderStatus(context.Background(), result.Order.PublicID, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)

	stored, err := env.store.OrderByPublicID(context.Background(), result.Order.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, stored.Status)
}

func TestUpdateOrderStatusIllegalTransition(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	result := checkoutFixture(t, env, 5, 1)

	_, err := env.svc.UpdateOrderStatus(context.Background(), result.Order.PublicID, models.OrderShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := env.store.OrderByPublicID(context.Background(), result.Order.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	_, err := env.svc.UpdateOrderStatus(context.Background(), "ord_000000000000", models.OrderStatus("teleported"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	_, err := env.svc.UpdateOrderStatus(context.Background(), "ord_000000000000", models.OrderConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
