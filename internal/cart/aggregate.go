// Package cart turns the flat list of cart line items returned by the
// backend into a per-product aggregated view suitable for rendering
// and bulk deletion.
package cart

import "github.com/dkotov/fishshop-bot/internal/domain"

// Entry is the aggregated view of all line items for one product.
type Entry struct {
	ProductID   int64
	Title       string
	UnitPrice   float64
	Count       int
	TotalPrice  float64
	LineItemIDs []int64
}

// Summary is the result of aggregating a cart. Entries keep the order
// in which their products were first seen in the input.
type Summary struct {
	byProduct map[int64]*Entry
	order     []int64
	total     float64
}

// Aggregate folds line items into per-product entries. Title and unit
// price come from the first occurrence of each product and are never
// overwritten by later items, so momentary backend drift cannot leak
// into the rendered view. Empty input yields an empty summary.
func Aggregate(items []domain.LineItem) *Summary {
	s := &Summary{byProduct: make(map[int64]*Entry)}
	for _, item := range items {
		entry, ok := s.byProduct[item.ProductID]
		if !ok {
			entry = &Entry{
				ProductID: item.ProductID,
				Title:     item.Title,
				UnitPrice: item.Price,
			}
			s.byProduct[item.ProductID] = entry
			s.order = append(s.order, item.ProductID)
		}
		entry.Count++
		entry.TotalPrice += item.Price
		entry.LineItemIDs = append(entry.LineItemIDs, item.ID)
		s.total += item.Price
	}
	return s
}

// Entries returns the aggregated entries in first-seen product order.
func (s *Summary) Entries() []*Entry {
	entries := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.byProduct[id])
	}
	return entries
}

// Entry returns the aggregated entry for a product id, if present.
func (s *Summary) Entry(productID int64) (*Entry, bool) {
	entry, ok := s.byProduct[productID]
	return entry, ok
}

// Total is the sum of every line item price in the cart.
func (s *Summary) Total() float64 {
	return s.total
}

// Empty reports whether the cart holds no line items.
func (s *Summary) Empty() bool {
	return len(s.order) == 0
}
