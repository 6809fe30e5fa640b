package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
)

// Request DTOs use pointer fields so a missing key can be told apart
// from a zero value during validation.

type CartItemDTO struct {
	ShopcartID *int64   `json:"shopcart_id,omitempty"`
	ProductID  *int64   `json:"product_id"`
	Quantity   *int     `json:"quantity"`
	Price      *float64 `json:"price"`
}

type ShopcartRequestDTO struct {
	CustomerID *int64        `json:"customer_id"`
	Items      []CartItemDTO `json:"items"`
}

type AddItemRequestDTO struct {
	ProductID *int64   `json:"product_id"`
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
}

type UpdateItemRequestDTO struct {
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

type BulkDeleteRequestDTO struct {
	ProductIDs []int64 `json:"product_ids"`
}

var errBadShape = errors.New("request body has a bad shape: expected a JSON object")

func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errBadShape
	}
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return errors.New("invalid JSON body")
}

// toDomain validates the cart payload and builds the entity. An absent
// items key deserializes to an empty list. The owning cart id on nested
// items comes from the path, never from the payload.
func (d *ShopcartRequestDTO) toDomain(shopcartID int64) (*domain.Shopcart, error) {
	if d.CustomerID == nil || *d.CustomerID <= 0 {
		return nil, errors.New("missing required field: customer_id")
	}
	cart := &domain.Shopcart{
		ID:         shopcartID,
		CustomerID: *d.CustomerID,
		Items:      []domain.CartItem{},
	}
	for i := range d.Items {
		item, err := d.Items[i].toDomain(shopcartID)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

func (d *CartItemDTO) toDomain(shopcartID int64) (domain.CartItem, error) {
	if d.ProductID == nil {
		return domain.CartItem{}, errors.New("invalid item: missing product_id")
	}
	if d.Quantity == nil {
		return domain.CartItem{}, fmt.Errorf("invalid item %d: missing quantity", *d.ProductID)
	}
	if d.Price == nil {
		return domain.CartItem{}, fmt.Errorf("invalid item %d: missing price", *d.ProductID)
	}
	if *d.Quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("invalid item %d: quantity must be a positive integer", *d.ProductID)
	}
	if *d.Price < 0 {
		return domain.CartItem{}, fmt.Errorf("invalid item %d: price must be a non-negative number", *d.ProductID)
	}
	return domain.CartItem{
		ShopcartID: shopcartID,
		ProductID:  *d.ProductID,
		Quantity:   *d.Quantity,
		Price:      *d.Price,
	}, nil
}

func (d *AddItemRequestDTO) toDomain() (domain.CartItem, error) {
	if d.ProductID == nil || *d.ProductID <= 0 {
		return domain.CartItem{}, errors.New("missing required field: product_id")
	}
	if d.Price == nil {
		return domain.CartItem{}, errors.New("missing required field: price")
	}
	if *d.Price < 0 {
		return domain.CartItem{}, errors.New("price must be a non-negative number")
	}
	quantity := 1
	if d.Quantity != nil {
		quantity = *d.Quantity
	}
	if quantity <= 0 {
		return domain.CartItem{}, errors.New("quantity must be a positive integer")
	}
	return domain.CartItem{
		ProductID: *d.ProductID,
		Quantity:  quantity,
		Price:     *d.Price,
	}, nil
}

func (d *UpdateItemRequestDTO) validate() error {
	if d.Quantity == nil && d.Price == nil {
		return errors.New("at least one of quantity or price is required")
	}
	if d.Quantity != nil && *d.Quantity <= 0 {
		return errors.New("quantity must be a positive integer")
	}
	if d.Price != nil && *d.Price < 0 {
		return errors.New("price must be a non-negative number")
	}
	return nil
}
