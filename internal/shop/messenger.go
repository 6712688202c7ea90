package shop

import "context"

// Button is one labeled inline action. Data travels back verbatim as a
// button-press payload.
type Button struct {
	Label string
	Data  string
}

// Messenger is the outbound side of the chat transport. Every dispatch
// cycle issues at most one send; a failed send aborts the cycle so the
// state is not committed.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, buttons [][]Button) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
