package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	counterMessages = "messages"
	counterKeyboard = "kb"
)

// metricsContext wraps tele.Context so every outbound send through the
// context bumps the per-update counters read by the dispatch summary log.
type metricsContext struct{ tele.Context }

func (m metricsContext) bump(err error, opts []any) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(counterMessages).(int)
	m.Set(counterMessages, n+1)
	if hasKeyboard(opts) {
		m.Set(counterKeyboard, true)
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what any, opts ...any) error {
	return m.bump(m.Context.Send(what, opts...), opts)
}

func (m metricsContext) Reply(what any, opts ...any) error {
	return m.bump(m.Context.Reply(what, opts...), opts)
}

func (m metricsContext) Edit(what any, opts ...any) error {
	return m.bump(m.Context.Edit(what, opts...), opts)
}

func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.bump(m.Context.EditOrSend(what, opts...), opts)
}

func (m metricsContext) EditOrReply(what any, opts ...any) error {
	return m.bump(m.Context.EditOrReply(what, opts...), opts)
}

// MessageMetricsMiddleware instruments the context so handlers downstream
// count sent messages and keyboard usage without knowing about it.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(counterMessages, 0)
		c.Set(counterKeyboard, false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads the per-update message count and keyboard flag.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(counterMessages).(int)
	kb, _ := c.Get(counterKeyboard).(bool)
	return msgs, kb
}
