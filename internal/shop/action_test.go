package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		fromButton bool
		want       Action
	}{
		{"restart command", "/start", false, Action{Kind: ActionStart}},
		{"cart button", "cart", true, Action{Kind: ActionCart}},
		{"back button", "back_to_menu", true, Action{Kind: ActionBackToMenu}},
		{"pay button", "pay", true, Action{Kind: ActionPay}},
		{"add to cart", "add_to_cart_7", true, Action{Kind: ActionAddToCart, ProductID: 7}},
		{
			"delete batch", "delete_products_12,15,19", true,
			Action{Kind: ActionDeleteProducts, LineItemIDs: []int64{12, 15, 19}},
		},
		{
			"delete single", "delete_products_42", true,
			Action{Kind: ActionDeleteProducts, LineItemIDs: []int64{42}},
		},
		{"product selection", "7", true, Action{Kind: ActionProduct, ProductID: 7}},
		{"numeric text is not a selection", "7", false, Action{Kind: ActionText}},
		{"free text", "hello", false, Action{Kind: ActionText}},
		{"unknown button payload", "mystery", true, Action{Kind: ActionText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAction(tt.payload, tt.fromButton))
		})
	}
}
