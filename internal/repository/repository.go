package repository

import (
	"context"
	"errors"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
)

var (
	ErrShopcartNotFound  = errors.New("shopcart not found")
	ErrItemNotFound      = errors.New("item not found in shopcart")
	ErrDuplicateCustomer = errors.New("shopcart for this customer already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// ShopcartRepository defines the interface for shopcart data operations.
// Consumers define this interface, not the Postgres implementation.
type ShopcartRepository interface {
	CreateShopcart(ctx context.Context, cart *domain.Shopcart) error
	GetShopcart(ctx context.Context, id int64) (*domain.Shopcart, error)
	ListShopcarts(ctx context.Context) ([]*domain.Shopcart, error)
	FindByCustomerID(ctx context.Context, customerID int64) (*domain.Shopcart, error)
	FindByProductID(ctx context.Context, productID int64) ([]*domain.Shopcart, error)
	ReplaceShopcart(ctx context.Context, cart *domain.Shopcart) error
	DeleteShopcart(ctx context.Context, id int64) error

	GetItem(ctx context.Context, shopcartID, productID int64) (*domain.CartItem, error)
	AddItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, shopcartID, productID int64) error
	DeleteItems(ctx context.Context, shopcartID int64, productIDs []int64) error
	ClearItems(ctx context.Context, shopcartID int64) error

	RunMigrations(*Credentials) error
	Close() error
}
