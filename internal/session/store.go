// Package session persists the single conversation state name kept per
// chat. Three backends are provided: Redis, Postgres and an in-memory
// map for tests and local runs.
package session

import "context"

// State names the five conversation states. The string values are the
// persisted wire format and must not change.
type State string

const (
	StateStart       State = "START"
	StateMenu        State = "HANDLE_MENU"
	StateDescription State = "HANDLE_DESCRIPTION"
	StateCart        State = "HANDLE_CART"
	StateEmail       State = "WAITING_EMAIL"
)

// ParseState maps a persisted string onto a known state.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case StateStart, StateMenu, StateDescription, StateCart, StateEmail:
		return State(s), true
	}
	return "", false
}

// Store is the per-chat key-value contract the dispatcher writes to at
// the end of every cycle. Get reports found=false for chats never seen
// before. Last write wins; there is no fencing for concurrent events
// from the same chat.
type Store interface {
	Get(ctx context.Context, chatID int64) (State, bool, error)
	Set(ctx context.Context, chatID int64, state State) error
}
