// Package bot adapts the conversation state machine to the Telegram
// transport: it turns telebot updates into dispatcher events and sends
// the handlers' messages back through the bot API.
package bot

import (
	"bytes"
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/dkotov/fishshop-bot/core/telegram/keyboard"
	"github.com/dkotov/fishshop-bot/internal/shop"
)

// contextMessenger implements shop.Messenger over the telebot context
// of the update being processed. Sending through the context keeps the
// message-metrics wrapper in the middleware chain informed.
type contextMessenger struct {
	c tele.Context
}

func newMessenger(c tele.Context) contextMessenger {
	return contextMessenger{c: c}
}

func (m contextMessenger) SendText(_ context.Context, chatID int64, text string, buttons [][]shop.Button) error {
	return m.send(chatID, text, toMarkup(buttons))
}

// SendPhoto uploads the image bytes instead of passing a URL;
// Telegram's own fetcher cannot reach a Strapi host on a private
// network.
func (m contextMessenger) SendPhoto(_ context.Context, chatID int64, photo []byte, caption string, buttons [][]shop.Button) error {
	p := &tele.Photo{File: tele.FromReader(bytes.NewReader(photo)), Caption: caption}
	return m.send(chatID, p, toMarkup(buttons))
}

func (m contextMessenger) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	return m.c.Bot().Delete(&tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

// send goes through the context when the target is the update's own
// chat and falls back to the bot handle otherwise.
func (m contextMessenger) send(chatID int64, what interface{}, markup *tele.ReplyMarkup) error {
	if chat := m.c.Chat(); chat != nil && chat.ID == chatID {
		if markup != nil {
			return m.c.Send(what, markup)
		}
		return m.c.Send(what)
	}
	if markup != nil {
		_, err := m.c.Bot().Send(tele.ChatID(chatID), what, markup)
		return err
	}
	_, err := m.c.Bot().Send(tele.ChatID(chatID), what)
	return err
}

func toMarkup(buttons [][]shop.Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, 0, len(buttons))
	for _, row := range buttons {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			r = append(r, keyboard.InlineBtn{Text: b.Label, Data: b.Data})
		}
		rows = append(rows, r)
	}
	return keyboard.InlineButtonsRows(rows...)
}
