package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ferremix/storefront/internal/models"
)

// Gorm implements every port against one *gorm.DB. Open the DB with
// TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{db: db} }

func (g *Gorm) Users() Users                 { return gormUsers{g.db} }
func (g *Gorm) Categories() Categories       { return gormCategories{g.db} }
func (g *Gorm) Products() Products           { return gormProducts{g.db} }
func (g *Gorm) Carts() Carts                 { return gormCarts{g.db} }
func (g *Gorm) Orders() Orders               { return gormOrders{g.db} }
func (g *Gorm) RefreshTokens() RefreshTokens { return gormRefreshTokens{g.db} }

func (g *Gorm) Transaction(ctx context.Context, fn func(Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case strings.Contains(err.Error(), "UNIQUE constraint"),
		strings.Contains(err.Error(), "duplicate key"):
		// Drivers without gorm error translation.
		return ErrConflict
	default:
		return err
	}
}

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r gormUsers) ByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r gormUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r gormUsers) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r gormUsers) Update(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r gormUsers) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error)
}

func (r gormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

type gormCategories struct{ db *gorm.DB }

func (r gormCategories) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r gormCategories) ByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r gormCategories) All(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r gormCategories) Update(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r gormCategories) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Category{}, id).Error)
}

func (r gormCategories) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}

type gormProducts struct{ db *gorm.DB }

const productWithCategory = "products.*, categories.name AS category_name"

func (r gormProducts) catalog(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select(productWithCategory).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

func (r gormProducts) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r gormProducts) ByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.catalog(ctx).Where("products.id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r gormProducts) All(ctx context.Context, limit int) ([]models.Product, error) {
	q := r.catalog(ctx)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r gormProducts) Filter(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.catalog(ctx)
	if f.IsOffer != nil {
		q = q.Where("products.is_offer = ?", *f.IsOffer)
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r gormProducts) Update(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r gormProducts) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Product{}, id).Error)
}

func (r gormProducts) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

type gormCarts struct{ db *gorm.DB }

func (r gormCarts) Create(ctx context.Context, c *models.Cart) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r gormCarts) ByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	if err := r.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r gormCarts) Items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r gormCarts) ItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var it models.CartItem
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r gormCarts) ItemByProduct(ctx context.Context, cartID string, productID uint) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&it).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r gormCarts) CreateItem(ctx context.Context, it *models.CartItem) error {
	return translate(r.db.WithContext(ctx).Create(it).Error)
}

func (r gormCarts) SaveItem(ctx context.Context, it *models.CartItem) error {
	return translate(r.db.WithContext(ctx).Save(it).Error)
}

func (r gormCarts) DeleteItem(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.CartItem{}, id).Error)
}

func (r gormCarts) ClearItems(ctx context.Context, cartID string) error {
	return translate(r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error)
}

type gormOrders struct{ db *gorm.DB }

func (r gormOrders) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r gormOrders) ByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Shipping").Preload("Payment").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r gormOrders) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r gormOrders) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r gormOrders) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r gormOrders) CreateShipping(ctx context.Context, s *models.Shipping) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r gormOrders) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r gormOrders) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

type gormRefreshTokens struct{ db *gorm.DB }

func (r gormRefreshTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r gormRefreshTokens) ByToken(ctx context.Context, raw string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.db.WithContext(ctx).First(&t, "token = ?", raw).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r gormRefreshTokens) Revoke(ctx context.Context, raw string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error
}
