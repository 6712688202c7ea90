package shop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkotov/fishshop-bot/core/logger"
	"github.com/dkotov/fishshop-bot/internal/session"
)

// Event is one normalized inbound update from the chat transport:
// either a free-text message or a button press carrying a payload.
type Event struct {
	UserID     int64
	ChatID     int64
	Username   string
	MessageID  int
	Payload    string
	FromButton bool
}

// Dispatcher maps (persisted state, incoming event) onto a handler,
// runs it and commits the handler's next state. The state write only
// happens after the handler succeeded; on any failure the user stays
// in their prior state and the next event re-runs the same handler.
type Dispatcher struct {
	gateway   Gateway
	messenger Messenger
	sessions  session.Store
}

// NewDispatcher wires the state machine to its collaborators.
func NewDispatcher(gateway Gateway, messenger Messenger, sessions session.Store) *Dispatcher {
	return &Dispatcher{gateway: gateway, messenger: messenger, sessions: sessions}
}

// Dispatch processes one event end to end. Safe to call concurrently
// for distinct chats; for one chat two racing events resolve by last
// state write wins.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	action := ParseAction(ev.Payload, ev.FromButton)

	state, err := d.resolveState(ctx, ev, action)
	if err != nil {
		return err
	}

	next, err := d.runState(ctx, state, ev, action)
	if err != nil {
		return err
	}

	if err := d.sessions.Set(ctx, ev.ChatID, next); err != nil {
		return err
	}

	logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "dispatch",
		slog.String("action", action.Kind.String()),
		slog.String("state", string(state)),
		slog.String("next_state", string(next)),
		slog.Int64("chat_id", ev.ChatID),
	)
	return nil
}

// resolveState picks the state whose handler runs for this event.
// Recognized command payloads override whatever state is persisted;
// two of them (add to cart, delete) also perform their backend writes
// here, before the display handler runs. Everything else falls back to
// the stored state, or START for a chat never seen before.
func (d *Dispatcher) resolveState(ctx context.Context, ev Event, action Action) (session.State, error) {
	switch action.Kind {
	case ActionStart:
		return session.StateStart, nil

	case ActionAddToCart:
		cartID, err := d.gateway.GetOrCreateCart(ctx, ev.ChatID)
		if err != nil {
			return "", err
		}
		if _, err := d.gateway.AddLineItem(ctx, cartID, action.ProductID); err != nil {
			return "", err
		}
		return session.StateDescription, nil

	case ActionCart:
		return session.StateCart, nil

	case ActionDeleteProducts:
		d.deleteLineItems(ctx, action.LineItemIDs)
		return session.StateDescription, nil

	case ActionBackToMenu:
		return session.StateDescription, nil

	case ActionPay:
		return session.StateEmail, nil
	}

	state, found, err := d.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	if !found {
		return session.StateStart, nil
	}
	return state, nil
}

// deleteLineItems attempts every id independently: one failed deletion
// is logged and must not block the rest of the batch.
func (d *Dispatcher) deleteLineItems(ctx context.Context, ids []int64) {
	for _, id := range ids {
		if err := d.gateway.DeleteLineItem(ctx, id); err != nil {
			logger.LogEvent(ctx, logger.Shop, slog.LevelWarn, "cart.delete_failed",
				slog.Int64("line_item_id", id),
				slog.String("err", err.Error()),
			)
		}
	}
}

// runState is the exhaustive state-to-handler match. Adding a state
// means adding a case here.
func (d *Dispatcher) runState(ctx context.Context, state session.State, ev Event, action Action) (session.State, error) {
	switch state {
	case session.StateStart:
		return d.handleStart(ctx, ev, action)
	case session.StateMenu:
		return d.handleMenu(ctx, ev, action)
	case session.StateDescription:
		return d.handleDescription(ctx, ev, action)
	case session.StateCart:
		return d.handleCart(ctx, ev, action)
	case session.StateEmail:
		return d.handleEmail(ctx, ev, action)
	}
	return "", fmt.Errorf("shop: no handler for state %q", state)
}

func (k ActionKind) String() string {
	switch k {
	case ActionStart:
		return "start"
	case ActionCart:
		return "cart"
	case ActionBackToMenu:
		return "back_to_menu"
	case ActionPay:
		return "pay"
	case ActionAddToCart:
		return "add_to_cart"
	case ActionDeleteProducts:
		return "delete_products"
	case ActionProduct:
		return "product"
	default:
		return "text"
	}
}
