package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/repository"
)

type serviceMock struct {
	cart  *domain.Shopcart
	carts []*domain.Shopcart
	item  *domain.CartItem
	items []domain.CartItem
	err   error

	gotCart       *domain.Shopcart
	gotItem       domain.CartItem
	gotShopcartID int64
	gotProductID  int64
	gotCustomerID *int64
	gotProductFil *int64
	gotQuantity   *int
	gotPrice      *float64
	gotProductIDs []int64
}

func (m *serviceMock) CreateShopcart(_ context.Context, cart *domain.Shopcart) (*domain.Shopcart, error) {
	m.gotCart = cart
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *serviceMock) GetShopcart(_ context.Context, id int64) (*domain.Shopcart, error) {
	m.gotShopcartID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *serviceMock) ListShopcarts(_ context.Context, customerID, productID *int64) ([]*domain.Shopcart, error) {
	m.gotCustomerID = customerID
	m.gotProductFil = productID
	return m.carts, m.err
}

func (m *serviceMock) ReplaceShopcart(_ context.Context, cart *domain.Shopcart) (*domain.Shopcart, error) {
	m.gotCart = cart
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *serviceMock) DeleteShopcart(_ context.Context, id int64) error {
	m.gotShopcartID = id
	return m.err
}

func (m *serviceMock) ClearShopcart(_ context.Context, id int64) (*domain.Shopcart, error) {
	m.gotShopcartID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *serviceMock) AddItem(_ context.Context, shopcartID int64, item domain.CartItem) (*domain.CartItem, error) {
	m.gotShopcartID = shopcartID
	m.gotItem = item
	if m.err != nil {
		return nil, m.err
	}
	return m.item, nil
}

func (m *serviceMock) ListItems(_ context.Context, shopcartID int64, productID *int64) ([]domain.CartItem, error) {
	m.gotShopcartID = shopcartID
	m.gotProductFil = productID
	return m.items, m.err
}

func (m *serviceMock) GetItem(_ context.Context, shopcartID, productID int64) (*domain.CartItem, error) {
	m.gotShopcartID = shopcartID
	m.gotProductID = productID
	if m.err != nil {
		return nil, m.err
	}
	return m.item, nil
}

func (m *serviceMock) UpdateItem(_ context.Context, shopcartID, productID int64, quantity *int, price *float64) (*domain.CartItem, error) {
	m.gotShopcartID = shopcartID
	m.gotProductID = productID
	m.gotQuantity = quantity
	m.gotPrice = price
	if m.err != nil {
		return nil, m.err
	}
	return m.item, nil
}

func (m *serviceMock) RemoveItem(_ context.Context, shopcartID, productID int64) error {
	m.gotShopcartID = shopcartID
	m.gotProductID = productID
	return m.err
}

func (m *serviceMock) RemoveItems(_ context.Context, shopcartID int64, productIDs []int64) error {
	m.gotShopcartID = shopcartID
	m.gotProductIDs = productIDs
	return m.err
}

func newTestRouter(svc CartService) http.Handler {
	h := NewShopcartHandler(svc, 5*time.Second)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateShopcart_Success(t *testing.T) {
	svc := &serviceMock{cart: &domain.Shopcart{ID: 3, CustomerID: 42, Items: []domain.CartItem{}}}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", map[string]interface{}{"customer_id": 42})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/shopcarts/3", rec.Header().Get("Location"))

	var cart domain.Shopcart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Equal(t, int64(3), cart.ID)
	assert.Equal(t, int64(42), cart.CustomerID)
	assert.Equal(t, []domain.CartItem{}, cart.Items)
}

func TestCreateShopcart_MissingCustomerID(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "customer_id")
	assert.Nil(t, svc.gotCart)
}

func TestCreateShopcart_BadShape(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", []int{1, 2, 3})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "bad shape")
}

func TestCreateShopcart_DuplicateCustomer(t *testing.T) {
	svc := &serviceMock{err: repository.ErrDuplicateCustomer}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", map[string]interface{}{"customer_id": 42})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateShopcart_WrongContentType(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/shopcarts", bytes.NewBufferString(`{"customer_id": 42}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCreateShopcart_WithInitialItems(t *testing.T) {
	svc := &serviceMock{cart: &domain.Shopcart{ID: 1, CustomerID: 42}}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", map[string]interface{}{
		"customer_id": 42,
		"items": []map[string]interface{}{
			{"product_id": 7, "quantity": 2, "price": 9.99},
		},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotCart)
	require.Len(t, svc.gotCart.Items, 1)
	assert.Equal(t, int64(7), svc.gotCart.Items[0].ProductID)
}

func TestCreateShopcart_InvalidInitialItem(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "POST", "/shopcarts", map[string]interface{}{
		"customer_id": 42,
		"items": []map[string]interface{}{
			{"quantity": 2, "price": 9.99},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "product_id")
}

func TestGetShopcart_Success(t *testing.T) {
	svc := &serviceMock{cart: &domain.Shopcart{ID: 1, CustomerID: 42, Items: []domain.CartItem{}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/shopcarts/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.gotShopcartID)
}

func TestGetShopcart_NotFound(t *testing.T) {
	svc := &serviceMock{err: repository.ErrShopcartNotFound}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/shopcarts/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListShopcarts_NoFilter(t *testing.T) {
	svc := &serviceMock{carts: []*domain.Shopcart{{ID: 1, CustomerID: 42}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/shopcarts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotCustomerID)
	assert.Nil(t, svc.gotProductFil)
}

func TestListShopcarts_CustomerFilter(t *testing.T) {
	svc := &serviceMock{carts: []*domain.Shopcart{}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/shopcarts?customer_id=42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotCustomerID)
	assert.Equal(t, int64(42), *svc.gotCustomerID)

	// an empty result is an empty JSON list, not null
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestListShopcarts_MalformedFilter(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/shopcarts?customer_id=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateShopcart_Success(t *testing.T) {
	svc := &serviceMock{cart: &domain.Shopcart{ID: 1, CustomerID: 43, Items: []domain.CartItem{}}}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "PUT", "/shopcarts/1", map[string]interface{}{
		"customer_id": 43,
		"items":       []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotCart)
	assert.Equal(t, int64(1), svc.gotCart.ID)
	assert.Equal(t, int64(43), svc.gotCart.CustomerID)
}

func TestUpdateShopcart_NotFound(t *testing.T) {
	svc := &serviceMock{err: repository.ErrShopcartNotFound}
	router := newTestRouter(svc)

	rec := doJSON(t, router, "PUT", "/shopcarts/999", map[string]interface{}{"customer_id": 43})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteShopcart_AlwaysNoContent(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("DELETE", "/shopcarts/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(999), svc.gotShopcartID)
}

func TestClearShopcart_Success(t *testing.T) {
	svc := &serviceMock{cart: &domain.Shopcart{ID: 1, CustomerID: 42, Items: []domain.CartItem{}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest("PUT", "/shopcarts/1/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var cart domain.Shopcart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Empty(t, cart.Items)
}

func TestClearShopcart_NotFound(t *testing.T) {
	svc := &serviceMock{err: repository.ErrShopcartNotFound}
	router := newTestRouter(svc)

	req := httptest.NewRequest("PUT", "/shopcarts/999/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("PATCH", "/shopcarts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "method_not_allowed", resp.Error)
}

func TestUnknownRoute(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndex(t *testing.T) {
	svc := &serviceMock{}
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "/shopcarts", body["url"])
}
