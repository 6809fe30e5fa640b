package domain

// CartItem is one product line inside a shopcart. A cart can hold at
// most one row per product; adding the same product again merges into
// the existing row by incrementing its quantity.
type CartItem struct {
	ShopcartID int64   `json:"shopcart_id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// Shopcart is the cart owned by a single customer. A customer has at
// most one shopcart; the store enforces customer_id uniqueness.
type Shopcart struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Items      []CartItem `json:"items"`
}

// Item returns the cart's line for the given product, or nil.
func (s *Shopcart) Item(productID int64) *CartItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}
