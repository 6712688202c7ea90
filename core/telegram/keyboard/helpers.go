// Package keyboard builds telebot inline keyboards from plain
// label/data pairs.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn is one inline keyboard button. Data is placed on the wire
// verbatim, without telebot's unique-prefix encoding, so handlers can
// match raw callback payloads.
type InlineBtn struct {
	Text string
	Data string
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
