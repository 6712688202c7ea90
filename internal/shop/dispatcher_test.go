package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotov/fishshop-bot/internal/domain"
	"github.com/dkotov/fishshop-bot/internal/session"
)

type fakeGateway struct {
	products []domain.Product
	images   map[string][]byte
	cart     domain.Cart
	cartID   int64

	nextItemID int64

	listErr   error
	getErr    error
	imageErr  error
	deleteErr map[int64]error

	deleteAttempts []int64
	fetchedImages  []string
	addedProducts  []int64
	createdEmails  []string
	createUserOK   bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		cartID:       5,
		createUserOK: true,
		products: []domain.Product{
			{ID: 7, Title: "Сельдь", Description: "Свежая атлантическая", Price: 100, ImageURL: "http://backend/uploads/herring.jpg"},
			{ID: 9, Title: "Форель", Description: "Охлаждённая", Price: 250, ImageURL: "http://backend/uploads/trout.jpg"},
		},
		images: map[string][]byte{
			"http://backend/uploads/herring.jpg": []byte("herring-bytes"),
			"http://backend/uploads/trout.jpg":   []byte("trout-bytes"),
		},
	}
}

func (g *fakeGateway) ListProducts(context.Context) ([]domain.Product, error) {
	return g.products, g.listErr
}

func (g *fakeGateway) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	if g.getErr != nil {
		return domain.Product{}, g.getErr
	}
	for _, p := range g.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
}

func (g *fakeGateway) FetchImage(_ context.Context, imageURL string) ([]byte, error) {
	g.fetchedImages = append(g.fetchedImages, imageURL)
	if g.imageErr != nil {
		return nil, g.imageErr
	}
	img, ok := g.images[imageURL]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", imageURL, domain.ErrNotFound)
	}
	return img, nil
}

func (g *fakeGateway) GetOrCreateCart(context.Context, int64) (int64, error) {
	return g.cartID, nil
}

func (g *fakeGateway) AddLineItem(_ context.Context, _, productID int64) (int64, error) {
	g.addedProducts = append(g.addedProducts, productID)
	g.nextItemID++
	for _, p := range g.products {
		if p.ID == productID {
			g.cart.Items = append(g.cart.Items, domain.LineItem{
				ID: g.nextItemID, ProductID: p.ID, Title: p.Title, Price: p.Price,
			})
			break
		}
	}
	return g.nextItemID, nil
}

func (g *fakeGateway) DeleteLineItem(_ context.Context, id int64) error {
	g.deleteAttempts = append(g.deleteAttempts, id)
	return g.deleteErr[id]
}

func (g *fakeGateway) GetCartWithProducts(context.Context, int64) (domain.Cart, error) {
	return g.cart, nil
}

func (g *fakeGateway) CreateUser(_ context.Context, email, _ string) (bool, error) {
	g.createdEmails = append(g.createdEmails, email)
	return g.createUserOK, nil
}

type sentMessage struct {
	kind      string
	chatID    int64
	text      string
	photo     []byte
	buttons   [][]Button
	messageID int
}

type fakeMessenger struct {
	sent []sentMessage
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string, buttons [][]Button) error {
	m.sent = append(m.sent, sentMessage{kind: "text", chatID: chatID, text: text, buttons: buttons})
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photo []byte, caption string, buttons [][]Button) error {
	m.sent = append(m.sent, sentMessage{kind: "photo", chatID: chatID, text: caption, photo: photo, buttons: buttons})
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	m.sent = append(m.sent, sentMessage{kind: "delete", chatID: chatID, messageID: messageID})
	return nil
}

func (m *fakeMessenger) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

func buttonData(buttons [][]Button) []string {
	var data []string
	for _, row := range buttons {
		for _, b := range row {
			data = append(data, b.Data)
		}
	}
	return data
}

func newTestDispatcher() (*Dispatcher, *fakeGateway, *fakeMessenger, *session.MemoryStore) {
	gateway := newFakeGateway()
	messenger := &fakeMessenger{}
	store := session.NewMemoryStore()
	return NewDispatcher(gateway, messenger, store), gateway, messenger, store
}

func mustState(t *testing.T, store *session.MemoryStore, chatID int64) session.State {
	t.Helper()
	state, found, err := store.Get(context.Background(), chatID)
	require.NoError(t, err)
	require.True(t, found)
	return state
}

func TestDispatchNewUserGetsProductList(t *testing.T) {
	d, _, messenger, store := newTestDispatcher()
	ctx := context.Background()

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "привет"})
	require.NoError(t, err)

	msg := messenger.last(t)
	assert.Equal(t, "text", msg.kind)
	assert.Equal(t, msgChooseProduct, msg.text)
	assert.Equal(t, []string{"7", "9", "cart"}, buttonData(msg.buttons))
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchRestartOverridesPersistedState(t *testing.T) {
	d, _, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateCart))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "/start"})
	require.NoError(t, err)

	assert.Equal(t, msgChooseProduct, messenger.last(t).text)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchProductSelection(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateMenu))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "7", FromButton: true})
	require.NoError(t, err)

	// The card carries the downloaded image bytes, not a URL: the
	// backend host may be unreachable from Telegram's side.
	assert.Equal(t, []string{"http://backend/uploads/herring.jpg"}, gateway.fetchedImages)
	msg := messenger.last(t)
	assert.Equal(t, "photo", msg.kind)
	assert.Equal(t, []byte("herring-bytes"), msg.photo)
	assert.Equal(t, "Сельдь (100 руб.)\n\nСвежая атлантическая", msg.text)
	assert.Equal(t, []string{"back_to_menu", "add_to_cart_7", "cart"}, buttonData(msg.buttons))
	assert.Equal(t, session.StateDescription, mustState(t, store, 1))
}

func TestDispatchImageFetchFailureAbortsWithoutCommit(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	gateway.imageErr = errors.New("uploads unreachable")
	require.NoError(t, store.Set(ctx, 1, session.StateMenu))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "7", FromButton: true})
	require.Error(t, err)

	assert.Empty(t, messenger.sent)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchUnknownProductAbortsWithoutCommit(t *testing.T) {
	d, _, _, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateMenu))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "99", FromButton: true})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchAddToCart(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateDescription))

	err := d.Dispatch(ctx, Event{ChatID: 1, MessageID: 33, Payload: "add_to_cart_7", FromButton: true})
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, gateway.addedProducts)
	msg := messenger.last(t)
	assert.Equal(t, "delete", msg.kind)
	assert.Equal(t, 33, msg.messageID)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchCartView(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	gateway.cart = domain.Cart{ID: 5, Items: []domain.LineItem{
		{ID: 12, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 15, ProductID: 7, Title: "Сельдь", Price: 100},
	}}
	require.NoError(t, store.Set(ctx, 1, session.StateDescription))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "cart", FromButton: true})
	require.NoError(t, err)

	msg := messenger.last(t)
	assert.Equal(t, "text", msg.kind)
	assert.Contains(t, msg.text, "Добавлено 2")
	assert.Contains(t, msg.text, "Общая сумма - 200 руб.")
	assert.Equal(t, []string{"delete_products_12,15", "back_to_menu", "pay"}, buttonData(msg.buttons))
	assert.Equal(t, session.StateDescription, mustState(t, store, 1))
}

func TestDispatchBatchDeleteAttemptsEveryID(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	gateway.deleteErr = map[int64]error{15: errors.New("boom")}
	require.NoError(t, store.Set(ctx, 1, session.StateDescription))

	err := d.Dispatch(ctx, Event{ChatID: 1, MessageID: 40, Payload: "delete_products_12,15,19", FromButton: true})
	require.NoError(t, err)

	assert.Equal(t, []int64{12, 15, 19}, gateway.deleteAttempts)
	assert.Equal(t, "delete", messenger.last(t).kind)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchPayPromptsForEmail(t *testing.T) {
	d, _, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateDescription))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "pay", FromButton: true})
	require.NoError(t, err)

	assert.Equal(t, msgAskEmail, messenger.last(t).text)
	assert.Equal(t, session.StateEmail, mustState(t, store, 1))
}

func TestDispatchValidEmailRegistersUser(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateEmail))

	err := d.Dispatch(ctx, Event{ChatID: 1, Username: "fisher", Payload: "user@example.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"user@example.com"}, gateway.createdEmails)
	assert.Equal(t, msgChooseProduct, messenger.last(t).text)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))
}

func TestDispatchInvalidEmailReprompts(t *testing.T) {
	d, gateway, messenger, store := newTestDispatcher()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, 1, session.StateEmail))

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "not-an-email"})
	require.NoError(t, err)

	assert.Empty(t, gateway.createdEmails)
	assert.Equal(t, msgBadEmail, messenger.last(t).text)
	assert.Equal(t, session.StateEmail, mustState(t, store, 1))
}

func TestDispatchGatewayFailureLeavesStateUntouched(t *testing.T) {
	d, gateway, _, store := newTestDispatcher()
	ctx := context.Background()
	gateway.listErr = errors.New("backend down")

	err := d.Dispatch(ctx, Event{ChatID: 1, Payload: "/start"})
	require.Error(t, err)

	_, found, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDispatchTotality(t *testing.T) {
	// Every (state, event) pair from the transition table lands in one
	// of the five defined states.
	events := map[string]Event{
		"text":    {ChatID: 1, Payload: "hello"},
		"product": {ChatID: 1, Payload: "7", FromButton: true},
		"cart":    {ChatID: 1, Payload: "cart", FromButton: true},
		"back":    {ChatID: 1, Payload: "back_to_menu", FromButton: true, MessageID: 2},
		"add":     {ChatID: 1, Payload: "add_to_cart_7", FromButton: true, MessageID: 2},
		"delete":  {ChatID: 1, Payload: "delete_products_12", FromButton: true, MessageID: 2},
		"pay":     {ChatID: 1, Payload: "pay", FromButton: true},
		"email":   {ChatID: 1, Payload: "user@example.com"},
		"restart": {ChatID: 1, Payload: "/start"},
	}
	states := []session.State{
		session.StateStart, session.StateMenu, session.StateDescription,
		session.StateCart, session.StateEmail,
	}

	for _, state := range states {
		for name, ev := range events {
			t.Run(string(state)+"/"+name, func(t *testing.T) {
				d, _, _, store := newTestDispatcher()
				ctx := context.Background()
				require.NoError(t, store.Set(ctx, 1, state))

				err := d.Dispatch(ctx, ev)
				next, found, getErr := store.Get(ctx, 1)
				require.NoError(t, getErr)
				require.True(t, found)
				if err != nil {
					// Aborted cycle: prior state must survive.
					assert.Equal(t, state, next)
					return
				}
				_, ok := session.ParseState(string(next))
				assert.True(t, ok, "undefined state %q", next)
			})
		}
	}
}

func TestEndToEndPurchaseFlow(t *testing.T) {
	d, _, messenger, store := newTestDispatcher()
	ctx := context.Background()

	// Fresh user restarts the conversation and gets the product list.
	require.NoError(t, d.Dispatch(ctx, Event{ChatID: 1, Payload: "/start"}))
	assert.Equal(t, msgChooseProduct, messenger.last(t).text)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))

	// Picks product 7 and receives its card with an add action.
	require.NoError(t, d.Dispatch(ctx, Event{ChatID: 1, Payload: "7", FromButton: true}))
	card := messenger.last(t)
	assert.Equal(t, "photo", card.kind)
	assert.True(t, strings.HasPrefix(card.text, "Сельдь"))
	assert.Contains(t, buttonData(card.buttons), "add_to_cart_7")
	assert.Equal(t, session.StateDescription, mustState(t, store, 1))

	// Adds it to the cart; the card is dismissed.
	require.NoError(t, d.Dispatch(ctx, Event{ChatID: 1, MessageID: 50, Payload: "add_to_cart_7", FromButton: true}))
	assert.Equal(t, "delete", messenger.last(t).kind)
	assert.Equal(t, session.StateMenu, mustState(t, store, 1))

	// Opens the cart and sees one kilogram of herring aggregated.
	require.NoError(t, d.Dispatch(ctx, Event{ChatID: 1, Payload: "cart", FromButton: true}))
	view := messenger.last(t)
	assert.Contains(t, view.text, "Сельдь")
	assert.Contains(t, view.text, "Добавлено 1")
	assert.Equal(t, session.StateDescription, mustState(t, store, 1))
}
