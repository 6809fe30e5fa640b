package service

import (
	"context"
	"errors"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/repository"
)

type ShopcartService struct {
	repo repository.ShopcartRepository
}

func NewShopcartService(repo repository.ShopcartRepository) *ShopcartService {
	return &ShopcartService{
		repo: repo,
	}
}

// CreateShopcart persists a new cart with its initial items. The
// customer_id uniqueness constraint surfaces as
// repository.ErrDuplicateCustomer.
func (s *ShopcartService) CreateShopcart(ctx context.Context, cart *domain.Shopcart) (*domain.Shopcart, error) {
	if err := s.repo.CreateShopcart(ctx, cart); err != nil {
		return nil, err
	}
	return s.repo.GetShopcart(ctx, cart.ID)
}

func (s *ShopcartService) GetShopcart(ctx context.Context, id int64) (*domain.Shopcart, error) {
	return s.repo.GetShopcart(ctx, id)
}

// ListShopcarts honors at most one filter. customer_id takes precedence
// over product_id when both are supplied. An unknown customer yields an
// empty list, not an error.
func (s *ShopcartService) ListShopcarts(ctx context.Context, customerID, productID *int64) ([]*domain.Shopcart, error) {
	switch {
	case customerID != nil:
		cart, err := s.repo.FindByCustomerID(ctx, *customerID)
		if errors.Is(err, repository.ErrShopcartNotFound) {
			return []*domain.Shopcart{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []*domain.Shopcart{cart}, nil
	case productID != nil:
		return s.repo.FindByProductID(ctx, *productID)
	default:
		return s.repo.ListShopcarts(ctx)
	}
}

// ReplaceShopcart swaps the cart's customer id and entire item list.
func (s *ShopcartService) ReplaceShopcart(ctx context.Context, cart *domain.Shopcart) (*domain.Shopcart, error) {
	if err := s.repo.ReplaceShopcart(ctx, cart); err != nil {
		return nil, err
	}
	return s.repo.GetShopcart(ctx, cart.ID)
}

func (s *ShopcartService) DeleteShopcart(ctx context.Context, id int64) error {
	return s.repo.DeleteShopcart(ctx, id)
}

// ClearShopcart removes every item but keeps the cart itself.
func (s *ShopcartService) ClearShopcart(ctx context.Context, id int64) (*domain.Shopcart, error) {
	if _, err := s.repo.GetShopcart(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetShopcart(ctx, id)
}

// AddItem adds a product to the cart. If the product is already in the
// cart the quantities merge instead of creating a duplicate row.
func (s *ShopcartService) AddItem(ctx context.Context, shopcartID int64, item domain.CartItem) (*domain.CartItem, error) {
	if _, err := s.repo.GetShopcart(ctx, shopcartID); err != nil {
		return nil, err
	}
	item.ShopcartID = shopcartID
	return s.repo.AddItem(ctx, &item)
}

// ListItems returns the cart's items, optionally narrowed to one
// product. A product filter that matches nothing is a not-found.
func (s *ShopcartService) ListItems(ctx context.Context, shopcartID int64, productID *int64) ([]domain.CartItem, error) {
	cart, err := s.repo.GetShopcart(ctx, shopcartID)
	if err != nil {
		return nil, err
	}
	if productID == nil {
		return cart.Items, nil
	}
	item := cart.Item(*productID)
	if item == nil {
		return nil, repository.ErrItemNotFound
	}
	return []domain.CartItem{*item}, nil
}

func (s *ShopcartService) GetItem(ctx context.Context, shopcartID, productID int64) (*domain.CartItem, error) {
	if _, err := s.repo.GetShopcart(ctx, shopcartID); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, shopcartID, productID)
}

// UpdateItem applies whichever of quantity and price were supplied and
// returns the stored row. Absent cart or item is a not-found.
func (s *ShopcartService) UpdateItem(ctx context.Context, shopcartID, productID int64, quantity *int, price *float64) (*domain.CartItem, error) {
	if _, err := s.repo.GetShopcart(ctx, shopcartID); err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, shopcartID, productID)
	if err != nil {
		return nil, err
	}
	if quantity != nil {
		item.Quantity = *quantity
	}
	if price != nil {
		item.Price = *price
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ShopcartService) RemoveItem(ctx context.Context, shopcartID, productID int64) error {
	return s.repo.DeleteItem(ctx, shopcartID, productID)
}

// RemoveItems deletes each listed product from the cart. Ids without a
// matching row are skipped.
func (s *ShopcartService) RemoveItems(ctx context.Context, shopcartID int64, productIDs []int64) error {
	return s.repo.DeleteItems(ctx, shopcartID, productIDs)
}
