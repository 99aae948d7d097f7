package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"   json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	IsAdmin      bool      `gorm:"default:false"        json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
	Slug string `gorm:"uniqueIndex;not null"     json:"slug"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	ImageURL    string    `json:"image_url"`
	CategoryID  *uint     `gorm:"index"                    json:"category_id"`
	IsOffer     bool      `gorm:"default:false"            json:"is_offer"`
	Stock       int       `gorm:"default:0"                json:"stock"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined from categories on catalog reads, never written.
	CategoryName string `gorm:"<-:false;-:migration" json:"category_name,omitempty"`
}

type Cart struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36"      json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    string    `gorm:"index;size:36;not null"   json:"cart_id"`
	ProductID uint      `gorm:"not null"                 json:"product_id"`
	Quantity  int       `gorm:"default:1"                json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime"           json:"added_at"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"index;size:36;not null"   json:"user_id"`
	Total     float64   `gorm:"not null"                 json:"total"`
	Status    string    `gorm:"not null"                 json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Shipping *Shipping   `gorm:"foreignKey:OrderID" json:"shipping,omitempty"`
	Payment  *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// OrderItem freezes product name and price as they were at checkout.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint    `gorm:"index;not null"           json:"order_id"`
	ProductID       uint    `gorm:"not null"                 json:"product_id"`
	ProductName     string  `gorm:"not null"                 json:"product_name"`
	PriceAtPurchase float64 `gorm:"not null"                 json:"price_at_purchase"`
	Quantity        int     `gorm:"not null"                 json:"quantity"`
}

type Shipping struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  uint   `gorm:"index;not null"           json:"order_id"`
	FullName string `gorm:"not null"                 json:"full_name"`
	Address  string `gorm:"not null"                 json:"address"`
	City     string `gorm:"not null"                 json:"city"`
	Phone    string `gorm:"not null"                 json:"phone"`
	Notes    string `json:"notes"`
}

type Payment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint   `gorm:"index;not null"           json:"order_id"`
	Method    string `gorm:"not null"                 json:"method"`
	Reference string `json:"reference"`
	Status    string `gorm:"not null"                 json:"status"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"   json:"token"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"               json:"expires_at"`
	Revoked   bool      `gorm:"default:false"          json:"revoked"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Category{}, &Product{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{}, &Shipping{}, &Payment{},
		&RefreshToken{},
	}
}
