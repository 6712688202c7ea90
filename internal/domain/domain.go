// Package domain holds the core commerce entities shared between the
// conversation handlers, the cart aggregator and the backend gateway.
package domain

// Product is a catalog entry served by the commerce backend.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	ImageURL    string
}

// LineItem represents exactly one addition of a product to a cart.
// Repeated purchases of the same product produce repeated line items,
// never a quantity counter.
type LineItem struct {
	ID        int64
	ProductID int64
	Title     string
	Price     float64
}

// Cart is a user's cart with its raw, unaggregated line items.
type Cart struct {
	ID    int64
	Items []LineItem
}
