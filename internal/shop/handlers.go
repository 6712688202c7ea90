package shop

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dkotov/fishshop-bot/core/logger"
	"github.com/dkotov/fishshop-bot/internal/cart"
	"github.com/dkotov/fishshop-bot/internal/session"
)

const (
	msgChooseProduct = "Пожалуйста выберите:"
	msgAskEmail      = "Пожалуйста введите ваш email"
	msgBadEmail      = "Пожалуйста укажите корректный email"

	btnBack      = "Назад"
	btnAddToCart = "Добавить в корзину"
	btnMyCart    = "Моя корзина"
	btnPay       = "Оплатить"
)

// handleStart greets a fresh (or restarted) chat with the product
// list, exactly the way the description handler does it.
func (d *Dispatcher) handleStart(ctx context.Context, ev Event, action Action) (session.State, error) {
	return d.handleDescription(ctx, ev, action)
}

// handleMenu shows the selected product: photo, caption with price and
// description, and the three product actions. The picture is pulled
// from the backend and uploaded as bytes; Telegram cannot fetch from a
// Strapi host that is not publicly reachable.
func (d *Dispatcher) handleMenu(ctx context.Context, ev Event, action Action) (session.State, error) {
	if action.Kind != ActionProduct {
		return "", fmt.Errorf("shop: unexpected payload %q while choosing a product", ev.Payload)
	}

	product, err := d.gateway.GetProduct(ctx, action.ProductID)
	if err != nil {
		return "", err
	}
	photo, err := d.gateway.FetchImage(ctx, product.ImageURL)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s (%s руб.)\n\n%s",
		product.Title, cart.FormatPrice(product.Price), product.Description)
	buttons := [][]Button{
		{{Label: btnBack, Data: backToMenuPrefix}},
		{{Label: btnAddToCart, Data: fmt.Sprintf("%s_%d", addToCartPrefix, product.ID)}},
		{{Label: btnMyCart, Data: cartPrefix}},
	}

	if err := d.messenger.SendPhoto(ctx, ev.ChatID, photo, caption, buttons); err != nil {
		return "", err
	}
	return session.StateDescription, nil
}

// handleDescription either dismisses the product card (button press)
// or sends the full product list (free-text entry). Both paths leave
// the chat choosing a product next.
func (d *Dispatcher) handleDescription(ctx context.Context, ev Event, action Action) (session.State, error) {
	if ev.FromButton {
		if action.Kind != ActionCart {
			if err := d.messenger.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
				return "", err
			}
		}
		return session.StateMenu, nil
	}

	products, err := d.gateway.ListProducts(ctx)
	if err != nil {
		return "", err
	}

	buttons := make([][]Button, 0, len(products)+1)
	for _, product := range products {
		buttons = append(buttons, []Button{{
			Label: product.Title,
			Data:  strconv.FormatInt(product.ID, 10),
		}})
	}
	buttons = append(buttons, []Button{{Label: btnMyCart, Data: cartPrefix}})

	if err := d.messenger.SendText(ctx, ev.ChatID, msgChooseProduct, buttons); err != nil {
		return "", err
	}
	return session.StateMenu, nil
}

// handleCart renders the aggregated cart: per-product blocks with
// count and totals, one delete button per product, then back and pay.
func (d *Dispatcher) handleCart(ctx context.Context, ev Event, _ Action) (session.State, error) {
	userCart, err := d.gateway.GetCartWithProducts(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}

	summary := cart.Aggregate(userCart.Items)
	actions := cart.DeleteActions(summary)

	buttons := make([][]Button, 0, len(actions)+2)
	for _, action := range actions {
		buttons = append(buttons, []Button{{Label: action.Label, Data: action.Token}})
	}
	buttons = append(buttons,
		[]Button{{Label: btnBack, Data: backToMenuPrefix}},
		[]Button{{Label: btnPay, Data: payPrefix}},
	)

	if err := d.messenger.SendText(ctx, ev.ChatID, cart.RenderText(summary), buttons); err != nil {
		return "", err
	}
	return session.StateDescription, nil
}

// handleEmail runs checkout: prompt on entry, validate the typed
// address, register the client and fall back into the product list.
func (d *Dispatcher) handleEmail(ctx context.Context, ev Event, action Action) (session.State, error) {
	if ev.FromButton {
		if err := d.messenger.SendText(ctx, ev.ChatID, msgAskEmail, nil); err != nil {
			return "", err
		}
		return session.StateEmail, nil
	}

	email := ev.Payload
	if !validEmail(email) {
		if err := d.messenger.SendText(ctx, ev.ChatID, msgBadEmail, nil); err != nil {
			return "", err
		}
		return session.StateEmail, nil
	}

	ok, err := d.gateway.CreateUser(ctx, email, ev.Username)
	if err != nil {
		return "", err
	}
	if !ok {
		// Most likely a duplicate registration; checkout continues.
		logger.LogEvent(ctx, logger.Shop, slog.LevelWarn, "user.create_rejected",
			slog.Int64("chat_id", ev.ChatID),
			slog.String("email", logger.SanitizeLimit(email, 64)),
		)
	}
	return d.handleDescription(ctx, ev, action)
}
