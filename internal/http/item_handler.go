package http

import (
	"context"
	"fmt"
	"net/http"
)

// AddItem handles POST /shopcarts/{shopcartID}/items. Adding a product
// already in the cart merges by incrementing the stored quantity.
func (h *ShopcartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	stored, err := h.service.AddItem(ctx, shopcartID, item)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location",
		fmt.Sprintf("/shopcarts/%d/items/%d", shopcartID, stored.ProductID))
	respondJSON(w, http.StatusCreated, stored)
}

// ListItems handles GET /shopcarts/{shopcartID}/items. With a
// product_id filter a miss is a 404, since product_id is half the
// composite key.
func (h *ShopcartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	productID, err := queryInt64(r, "product_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id must be an integer")
		return
	}

	items, err := h.service.ListItems(ctx, shopcartID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetItem handles GET /shopcarts/{shopcartID}/items/{productID}.
func (h *ShopcartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	item, err := h.service.GetItem(ctx, shopcartID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /shopcarts/{shopcartID}/items/{productID}. It
// applies whichever of quantity and price the payload supplies.
func (h *ShopcartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	var req UpdateItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.service.UpdateItem(ctx, shopcartID, productID, req.Quantity, req.Price)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /shopcarts/{shopcartID}/items/{productID}.
// An absent item is not an error.
func (h *ShopcartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(ctx, shopcartID, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItems handles DELETE /shopcarts/{shopcartID}/items with a
// product_ids list. Ids without a matching item are silently skipped;
// the response is always 204.
func (h *ShopcartHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopcartID, ok := pathID(w, r, "shopcartID")
	if !ok {
		return
	}

	var req BulkDeleteRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.service.RemoveItems(ctx, shopcartID, req.ProductIDs); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
