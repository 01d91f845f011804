package orders

import (
	"context"
	"fmt"

	"github.com/storefront-labs/checkout-api/pkg/models"
)

// UpdateOrderStatus applies an admin-initiated status transition. The
// transition table in models gates every move; paid_at and fulfilled_at are
// stamped by ApplyStatus exactly once.
func (s *Service) UpdateOrderStatus(ctx context.Context, publicID string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidTransition, next)
	}

	var order *models.Order
	err := s.Store.WithinTxn(ctx, func(ctx context.Context) error {
		o, err := s.Store.OrderByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		if err := o.ApplyStatus(next); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		if err := s.Store.UpdateOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
