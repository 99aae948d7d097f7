// Package store defines one storage port per entity and a single gorm-backed
// implementation. Handlers and services only see the ports.
package store

import (
	"context"
	"errors"

	"github.com/ferremix/storefront/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type Users interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type Categories interface {
	Create(ctx context.Context, c *models.Category) error
	ByID(ctx context.Context, id uint) (*models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// ProductFilter holds the sparse AND-combined catalog predicates. Nil/empty
// fields are skipped.
type ProductFilter struct {
	IsOffer    *bool
	CategoryID *uint
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	Limit      int
}

type Products interface {
	Create(ctx context.Context, p *models.Product) error
	ByID(ctx context.Context, id uint) (*models.Product, error)
	All(ctx context.Context, limit int) ([]models.Product, error)
	Filter(ctx context.Context, f ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type Carts interface {
	Create(ctx context.Context, c *models.Cart) error
	ByUser(ctx context.Context, userID string) (*models.Cart, error)
	Items(ctx context.Context, cartID string) ([]models.CartItem, error)
	ItemByID(ctx context.Context, id uint) (*models.CartItem, error)
	ItemByProduct(ctx context.Context, cartID string, productID uint) (*models.CartItem, error)
	CreateItem(ctx context.Context, it *models.CartItem) error
	SaveItem(ctx context.Context, it *models.CartItem) error
	DeleteItem(ctx context.Context, id uint) error
	ClearItems(ctx context.Context, cartID string) error
}

type Orders interface {
	Create(ctx context.Context, o *models.Order) error
	ByID(ctx context.Context, id uint) (*models.Order, error)
	ByUser(ctx context.Context, userID string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	CreateShipping(ctx context.Context, s *models.Shipping) error
	CreatePayment(ctx context.Context, p *models.Payment) error
	Count(ctx context.Context) (int64, error)
}

type RefreshTokens interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	ByToken(ctx context.Context, raw string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, raw string) error
}

type Store interface {
	Users() Users
	Categories() Categories
	Products() Products
	Carts() Carts
	Orders() Orders
	RefreshTokens() RefreshTokens

	// Transaction runs fn against a Store bound to one database transaction;
	// any error rolls every write back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
