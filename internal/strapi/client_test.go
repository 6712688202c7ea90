package strapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	"github.com/dkotov/fishshop-bot/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(coreconfig.StrapiConfig{Host: srv.URL, Token: "test-token"})
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "picture", r.URL.Query().Get("populate"))
		assert.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": 7,
					"attributes": map[string]any{
						"title":       "Сельдь",
						"description": "Свежая",
						"price":       100,
						"picture": map[string]any{
							"data": []map[string]any{
								{"attributes": map[string]any{"url": "/uploads/herring.jpg"}},
							},
						},
					},
				},
			},
		})
	}))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].ID)
	assert.Equal(t, "Сельдь", products[0].Title)
	assert.Equal(t, 100.0, products[0].Price)
	assert.Equal(t, client.host+"/uploads/herring.jpg", products[0].ImageURL)
}

func TestFetchImage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uploads/herring.jpg", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))

	img, err := client.FetchImage(context.Background(), client.host+"/uploads/herring.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), img)
}

func TestFetchImageMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchImage(context.Background(), client.host+"/uploads/gone.jpg")
	assert.Error(t, err)

	_, err = client.FetchImage(context.Background(), "")
	assert.Error(t, err)
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrCreateCartExisting(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "123", r.URL.Query().Get("filters[telegram_id][$eq]"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": 5, "attributes": map[string]any{}}},
		})
	}))

	cartID, err := client.GetOrCreateCart(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cartID)
}

func TestGetOrCreateCartCreates(t *testing.T) {
	var created bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		case http.MethodPost:
			created = true
			var body map[string]map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.EqualValues(t, 123, body["data"]["telegram_id"])
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 8}})
		}
	}))

	cartID, err := client.GetOrCreateCart(context.Background(), 123)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(8), cartID)
}

func TestAddLineItem(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart-products", r.URL.Path)
		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 5, body["data"]["cart"])
		assert.EqualValues(t, 7, body["data"]["product"])
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 42}})
	}))

	id, err := client.AddLineItem(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestDeleteLineItemMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cart-products/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.DeleteLineItem(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCartWithProducts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cart_products.product", r.URL.Query().Get("populate[0]"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": 5,
					"attributes": map[string]any{
						"cart_products": map[string]any{
							"data": []map[string]any{
								{
									"id": 12,
									"attributes": map[string]any{
										"product": map[string]any{
											"data": map[string]any{
												"id":         7,
												"attributes": map[string]any{"title": "Сельдь", "price": 100},
											},
										},
									},
								},
								{
									"id": 13,
									"attributes": map[string]any{
										"product": map[string]any{"data": nil},
									},
								},
							},
						},
					},
				},
			},
		})
	}))

	cart, err := client.GetCartWithProducts(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cart.ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(12), cart.Items[0].ID)
	assert.Equal(t, int64(7), cart.Items[0].ProductID)
	assert.Equal(t, "Сельдь", cart.Items[0].Title)
}

func TestGetCartWithProductsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	cart, err := client.GetCartWithProducts(context.Background(), 123)
	require.NoError(t, err)
	assert.Zero(t, cart.ID)
	assert.Empty(t, cart.Items)
}

func TestCreateUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clients", r.URL.Path)
		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["data"]["email"])
		assert.Equal(t, "fisher", body["data"]["username"])
		w.WriteHeader(http.StatusOK)
	}))

	ok, err := client.CreateUser(context.Background(), "user@example.com", "fisher")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUserDuplicate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	ok, err := client.CreateUser(context.Background(), "user@example.com", "fisher")
	require.NoError(t, err)
	assert.False(t, ok)
}
