package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/store"
)

// CartService owns the per-user cart: lazy creation, merge-adds with an
// advisory stock pre-check, quantity updates and the read-side summary.
type CartService struct {
	Store store.Store
}

// SummaryLine carries the current (not snapshotted) product price.
type SummaryLine struct {
	ItemID    uint    `json:"item_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type Summary struct {
	Count    int           `json:"count"`
	Subtotal float64       `json:"subtotal"`
	Items    []SummaryLine `json:"items"`
}

// GetOrCreate fetches the user's cart, persisting an empty one on first access.
func (s *CartService) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.Store.Carts().ByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	cart = &models.Cart{UserID: userID}
	if err := s.Store.Carts().Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem merges quantity into an existing (cart, product) line or inserts a
// new one. The stock check is advisory: it looks at the requested quantity
// only and is not re-validated at checkout, so a concurrent purchase can
// still oversell.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Store.Products().ByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: insufficient stock for %q", ErrValidation, product.Name)
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Store.Carts().ItemByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := s.Store.Carts().SaveItem(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	case errors.Is(err, store.ErrNotFound):
		item = &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.Store.Carts().CreateItem(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	default:
		return nil, err
	}
}

// UpdateQuantity overwrites the stored quantity; anything below 1 removes the
// line instead of writing a non-positive value.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID uint, quantity int) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.Store.Carts().DeleteItem(ctx, item.ID)
	}
	item.Quantity = quantity
	return s.Store.Carts().SaveItem(ctx, item)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uint) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.Store.Carts().DeleteItem(ctx, item.ID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.Store.Carts().ClearItems(ctx, cart.ID)
}

// Summary aggregates count and subtotal over the cart using current product
// prices.
func (s *CartService) Summary(ctx context.Context, userID string) (*Summary, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Store.Carts().Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Items: make([]SummaryLine, 0, len(items))}
	for _, it := range items {
		product, err := s.Store.Products().ByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Product deleted after it was carted; skip the line.
				continue
			}
			return nil, err
		}
		line := SummaryLine{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			Price:     product.Price,
			Quantity:  it.Quantity,
			LineTotal: product.Price * float64(it.Quantity),
		}
		sum.Count += it.Quantity
		sum.Subtotal += line.LineTotal
		sum.Items = append(sum.Items, line)
	}
	return sum, nil
}

func (s *CartService) ownedItem(ctx context.Context, userID string, itemID uint) (*models.CartItem, error) {
	item, err := s.Store.Carts().ItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	cart, err := s.Store.Carts().ByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: not your cart item", ErrForbidden)
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, fmt.Errorf("%w: not your cart item", ErrForbidden)
	}
	return item, nil
}
