package strapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dkotov/fishshop-bot/internal/domain"
)

// ListProducts returns the full catalog with image references resolved
// against the Strapi host.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := url.Values{"populate": {"picture"}}
	var envelope productListEnvelope
	status, err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &envelope)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("strapi: list products: status %d", status)
	}

	products := make([]domain.Product, 0, len(envelope.Data))
	for _, data := range envelope.Data {
		products = append(products, c.toProduct(data))
	}
	return products, nil
}

// GetProduct fetches one catalog entry. A missing id yields
// domain.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	query := url.Values{"populate": {"picture"}}
	var envelope productEnvelope
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), query, nil, &envelope)
	if err != nil {
		return domain.Product{}, err
	}
	switch {
	case status == http.StatusNotFound:
		return domain.Product{}, fmt.Errorf("strapi: product %d: %w", id, domain.ErrNotFound)
	case status != http.StatusOK:
		return domain.Product{}, fmt.Errorf("strapi: product %d: status %d", id, status)
	}
	return c.toProduct(envelope.Data), nil
}

func (c *Client) toProduct(data productData) domain.Product {
	product := domain.Product{
		ID:          data.ID,
		Title:       data.Attributes.Title,
		Description: data.Attributes.Description,
		Price:       data.Attributes.Price,
	}
	if pics := data.Attributes.Picture.Data; len(pics) > 0 {
		product.ImageURL = c.host + pics[0].Attributes.URL
	}
	return product
}
