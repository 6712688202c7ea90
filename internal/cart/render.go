package cart

import (
	"strconv"
	"strings"
)

// DeleteAction is a labeled button that removes every line item of one
// product in a single press. Token carries the raw callback payload.
type DeleteAction struct {
	Label string
	Token string
}

const deleteTokenPrefix = "delete_products_"

// RenderText builds the human-readable cart message: one block per
// product in first-seen order, followed by the grand total.
func RenderText(s *Summary) string {
	var b strings.Builder
	b.WriteString("Корзина:\n\n")
	for _, entry := range s.Entries() {
		b.WriteString(entry.Title)
		b.WriteString("\nЗа килограмм ")
		b.WriteString(FormatPrice(entry.UnitPrice))
		b.WriteString(" руб.\nДобавлено ")
		b.WriteString(strconv.Itoa(entry.Count))
		b.WriteString(" кг. на сумму ")
		b.WriteString(FormatPrice(entry.TotalPrice))
		b.WriteString(" руб.\n\n")
	}
	b.WriteString("Общая сумма - ")
	b.WriteString(FormatPrice(s.Total()))
	b.WriteString(" руб.")
	return b.String()
}

// DeleteActions builds one delete button per product. The token packs
// every contributing line item id, comma-joined, so the whole product
// can be removed with one backend round trip per id.
func DeleteActions(s *Summary) []DeleteAction {
	actions := make([]DeleteAction, 0, len(s.order))
	for _, entry := range s.Entries() {
		ids := make([]string, 0, len(entry.LineItemIDs))
		for _, id := range entry.LineItemIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		actions = append(actions, DeleteAction{
			Label: "Удалить " + entry.Title,
			Token: deleteTokenPrefix + strings.Join(ids, ","),
		})
	}
	return actions
}

// FormatPrice renders a price the way the chat messages expect: no
// trailing zeros, no forced decimals ("100", "250.5").
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
