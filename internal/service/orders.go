package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/store"
)

// OrderService is the read side of order history with the owner-or-admin
// authorization check.
type OrderService struct {
	Store store.Store
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.Store.Orders().ByUser(ctx, userID)
}

// Get returns the order when the caller owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, userID string, isAdmin bool, orderID uint) (*models.Order, error) {
	order, err := s.Store.Orders().ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}
