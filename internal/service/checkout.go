package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/store"
)

const PaymentStatusPaid = "paid"

// ShippingInput are the required checkout form fields; Notes is optional.
type ShippingInput struct {
	FullName string `json:"full_name" form:"full_name"`
	Address  string `json:"address"   form:"address"`
	City     string `json:"city"      form:"city"`
	Phone    string `json:"phone"     form:"phone"`
	Notes    string `json:"notes"     form:"notes"`
}

type PaymentInput struct {
	Method    string `json:"payment_method"    form:"payment_method"`
	Reference string `json:"payment_reference" form:"payment_reference"`
}

// CheckoutService converts a cart into an order. Order, snapshot items,
// shipping, payment and the cart clear run in one transaction, so a failed
// step leaves nothing behind.
type CheckoutService struct {
	Store store.Store

	// InitialStatus is the status new orders are created with,
	// "pending" unless configured otherwise.
	InitialStatus string
}

func (s *CheckoutService) initialStatus() string {
	if s.InitialStatus == "" {
		return "pending"
	}
	return s.InitialStatus
}

func (s *CheckoutService) validate(ship ShippingInput, pay PaymentInput) error {
	missing := []string{}
	for field, v := range map[string]string{
		"full_name":      ship.FullName,
		"address":        ship.Address,
		"city":           ship.City,
		"phone":          ship.Phone,
		"payment_method": pay.Method,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Checkout creates the order for the user's cart and returns it with its
// snapshot items attached. The payment record is a simulated sink, always
// written with status "paid".
func (s *CheckoutService) Checkout(ctx context.Context, userID string, ship ShippingInput, pay PaymentInput) (*models.Order, error) {
	if err := s.validate(ship, pay); err != nil {
		return nil, err
	}

	var order *models.Order
	txErr := s.Store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().ByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: your cart is empty", ErrValidation)
			}
			return err
		}
		items, err := tx.Carts().Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: your cart is empty", ErrValidation)
		}

		var total float64
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := tx.Products().ByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%w: product %d no longer exists", ErrValidation, it.ProductID)
				}
				return err
			}
			total += product.Price * float64(it.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				PriceAtPurchase: product.Price,
				Quantity:        it.Quantity,
			})
		}

		order = &models.Order{
			UserID: userID,
			Total:  total,
			Status: s.initialStatus(),
			Items:  orderItems,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		if err := tx.Orders().CreateShipping(ctx, &models.Shipping{
			OrderID:  order.ID,
			FullName: ship.FullName,
			Address:  ship.Address,
			City:     ship.City,
			Phone:    ship.Phone,
			Notes:    ship.Notes,
		}); err != nil {
			return err
		}

		if err := tx.Orders().CreatePayment(ctx, &models.Payment{
			OrderID:   order.ID,
			Method:    pay.Method,
			Reference: pay.Reference,
			Status:    PaymentStatusPaid,
		}); err != nil {
			return err
		}

		// The cart row itself survives for reuse, only its lines go.
		return tx.Carts().ClearItems(ctx, cart.ID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}
