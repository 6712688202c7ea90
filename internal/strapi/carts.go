package strapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dkotov/fishshop-bot/internal/domain"
)

// GetOrCreateCart returns the cart id for a Telegram user, creating the
// cart on first use. The backend serializes lookup-or-create on its
// side, so repeated calls for the same user resolve to the same cart.
func (c *Client) GetOrCreateCart(ctx context.Context, telegramID int64) (int64, error) {
	query := url.Values{"filters[telegram_id][$eq]": {strconv.FormatInt(telegramID, 10)}}
	var existing cartListEnvelope
	status, err := c.do(ctx, http.MethodGet, "/api/carts", query, nil, &existing)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("strapi: find cart for %d: status %d", telegramID, status)
	}
	if len(existing.Data) > 0 {
		return existing.Data[0].ID, nil
	}

	payload := map[string]any{"data": map[string]any{"telegram_id": telegramID}}
	var created createdEnvelope
	status, err = c.do(ctx, http.MethodPost, "/api/carts", nil, payload, &created)
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return 0, fmt.Errorf("strapi: create cart for %d: status %d", telegramID, status)
	}
	return created.Data.ID, nil
}

// AddLineItem records one addition of a product to a cart and returns
// the new line item id.
func (c *Client) AddLineItem(ctx context.Context, cartID, productID int64) (int64, error) {
	payload := map[string]any{"data": map[string]any{"cart": cartID, "product": productID}}
	var created createdEnvelope
	status, err := c.do(ctx, http.MethodPost, "/api/cart-products", nil, payload, &created)
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return 0, fmt.Errorf("strapi: add product %d to cart %d: status %d", productID, cartID, status)
	}
	return created.Data.ID, nil
}

// DeleteLineItem removes one line item. Deleting an id that is already
// gone maps to domain.ErrNotFound so callers can keep going through a
// batch.
func (c *Client) DeleteLineItem(ctx context.Context, id int64) error {
	status, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart-products/%d", id), nil, nil, nil)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("strapi: line item %d: %w", id, domain.ErrNotFound)
	case status < 200 || status >= 300:
		return fmt.Errorf("strapi: delete line item %d: status %d", id, status)
	}
	return nil
}

// GetCartWithProducts reads the user's cart with every line item and
// its product populated. A user without a cart gets an empty cart, not
// an error.
func (c *Client) GetCartWithProducts(ctx context.Context, telegramID int64) (domain.Cart, error) {
	query := url.Values{
		"filters[telegram_id][$eq]": {strconv.FormatInt(telegramID, 10)},
		"populate[0]":               {"cart_products.product"},
	}
	var envelope cartListEnvelope
	status, err := c.do(ctx, http.MethodGet, "/api/carts", query, nil, &envelope)
	if err != nil {
		return domain.Cart{}, err
	}
	if status != http.StatusOK {
		return domain.Cart{}, fmt.Errorf("strapi: cart for %d: status %d", telegramID, status)
	}
	if len(envelope.Data) == 0 {
		return domain.Cart{}, nil
	}

	data := envelope.Data[0]
	cart := domain.Cart{ID: data.ID}
	for _, cp := range data.Attributes.CartProducts.Data {
		product := cp.Attributes.Product.Data
		if product == nil {
			// Line item whose product was removed from the catalog;
			// nothing sensible to render, skip it.
			continue
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:        cp.ID,
			ProductID: product.ID,
			Title:     product.Attributes.Title,
			Price:     product.Attributes.Price,
		})
	}
	return cart, nil
}
