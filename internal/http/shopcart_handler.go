package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
)

// CartService is what the handlers need from the service layer.
// Consumers define this interface, not the implementation.
type CartService interface {
	CreateShopcart(ctx context.Context, cart *domain.Shopcart) (*domain.Shopcart, error)
	GetShopcart(ctx context.Context, id int64) (*domain.Shopcart, error)
	ListShopcarts(ctx context.Context, customerID, productID *int64) ([]*domain.Shopcart, error)
	ReplaceShopcart(ctx context.Context, cart *domain.Shopcart) (*domain.Shopcart, error)
	DeleteShopcart(ctx context.Context, id int64) error
	ClearShopcart(ctx context.Context, id int64) (*domain.Shopcart, error)

	AddItem(ctx context.Context, shopcartID int64, item domain.CartItem) (*domain.CartItem, error)
	ListItems(ctx context.Context, shopcartID int64, productID *int64) ([]domain.CartItem, error)
	GetItem(ctx context.Context, shopcartID, productID int64) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, shopcartID, productID int64, quantity *int, price *float64) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, shopcartID, productID int64) error
	RemoveItems(ctx context.Context, shopcartID int64, productIDs []int64) error
}

type ShopcartHandler struct {
	service CartService
	timeout time.Duration
}

func NewShopcartHandler(service CartService, timeout time.Duration) *ShopcartHandler {
	return &ShopcartHandler{
		service: service,
		timeout: timeout,
	}
}

// CreateShopcart handles POST /shopcarts.
func (h *ShopcartHandler) CreateShopcart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ShopcartRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cart, err := req.toDomain(0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := h.service.CreateShopcart(ctx, cart)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/shopcarts/%d", created.ID))
	respondJSON(w, http.StatusCreated, created)
}

// ListShopcarts handles GET /shopcarts with optional customer_id and
// product_id filters. Only one filter is honored; customer_id wins.
func (h *ShopcartHandler) ListShopcarts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "customer_id must be an integer")
		return
	}
	productID, err := queryInt64(r, "product_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id must be an integer")
		return
	}

	carts, err := h.service.ListShopcarts(ctx, customerID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if carts == nil {
		carts = []*domain.Shopcart{}
	}
	respondJSON(w, http.StatusOK, carts)
}

// GetShopcart handles GET /shopcarts/{shopcartID}.
func (h *ShopcartHandler) GetShopcart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	cart, err := h.service.GetShopcart(ctx, shopcartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateShopcart handles PUT /shopcarts/{shopcartID}. This is a full
// replace: the current item list is discarded and re-populated from
// the payload.
func (h *ShopcartHandler) UpdateShopcart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	var req ShopcartRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cart, err := req.toDomain(shopcartID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.service.ReplaceShopcart(ctx, cart)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteShopcart handles DELETE /shopcarts/{shopcartID}. Deleting a
// cart that does not exist is not an error.
func (h *ShopcartHandler) DeleteShopcart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	if err := h.service.DeleteShopcart(ctx, shopcartID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearShopcart handles PUT /shopcarts/{shopcartID}/clear. It empties
// the cart's item list but keeps the cart.
func (h *ShopcartHandler) ClearShopcart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	cart, err := h.service.ClearShopcart(ctx, shopcartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
