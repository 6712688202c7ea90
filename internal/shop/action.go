// Package shop implements the conversation state machine: it parses
// incoming events into actions, dispatches them through per-state
// handlers and persists the resulting state.
package shop

import (
	"strconv"
	"strings"
)

// ActionKind tags the parsed intent of an incoming event.
type ActionKind int

const (
	// ActionText is any free-text message without a recognized command.
	ActionText ActionKind = iota
	// ActionStart is the explicit restart command.
	ActionStart
	// ActionCart opens the aggregated cart view.
	ActionCart
	// ActionBackToMenu dismisses the currently displayed message.
	ActionBackToMenu
	// ActionPay begins checkout by asking for an email.
	ActionPay
	// ActionAddToCart adds one line item for ProductID.
	ActionAddToCart
	// ActionDeleteProducts removes every line item in LineItemIDs.
	ActionDeleteProducts
	// ActionProduct selects a catalog entry by ProductID.
	ActionProduct
)

// Action is the tagged form of a raw event payload. Handlers never
// re-parse wire strings; everything they need is decoded here once.
type Action struct {
	Kind        ActionKind
	ProductID   int64
	LineItemIDs []int64
}

const (
	startCommand        = "/start"
	addToCartPrefix     = "add_to_cart"
	cartPrefix          = "cart"
	deleteProductPrefix = "delete_products"
	backToMenuPrefix    = "back_to_menu"
	payPrefix           = "pay"
)

// ParseAction decodes the raw payload of an event. Button payloads use
// `_` to separate the action name from its argument and `,` to pack
// multiple line item ids; that wire contract is fixed. fromButton
// distinguishes a bare numeric product selection (button press) from a
// free-text message that merely looks numeric.
func ParseAction(payload string, fromButton bool) Action {
	switch {
	case payload == startCommand:
		return Action{Kind: ActionStart}
	case strings.HasPrefix(payload, addToCartPrefix):
		return Action{Kind: ActionAddToCart, ProductID: trailingID(payload)}
	case strings.HasPrefix(payload, cartPrefix):
		return Action{Kind: ActionCart}
	case strings.HasPrefix(payload, deleteProductPrefix):
		return Action{Kind: ActionDeleteProducts, LineItemIDs: trailingIDList(payload)}
	case strings.HasPrefix(payload, backToMenuPrefix):
		return Action{Kind: ActionBackToMenu}
	case strings.HasPrefix(payload, payPrefix):
		return Action{Kind: ActionPay}
	}

	if fromButton {
		if id, err := strconv.ParseInt(payload, 10, 64); err == nil {
			return Action{Kind: ActionProduct, ProductID: id}
		}
	}
	return Action{Kind: ActionText}
}

// trailingID extracts the numeric argument after the last underscore,
// e.g. "add_to_cart_7" -> 7.
func trailingID(payload string) int64 {
	idx := strings.LastIndex(payload, "_")
	if idx < 0 || idx == len(payload)-1 {
		return 0
	}
	id, err := strconv.ParseInt(payload[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// trailingIDList extracts a comma-joined id list after the last
// underscore, e.g. "delete_products_12,15,19" -> [12 15 19].
func trailingIDList(payload string) []int64 {
	idx := strings.LastIndex(payload, "_")
	if idx < 0 || idx == len(payload)-1 {
		return nil
	}
	parts := strings.Split(payload[idx+1:], ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
