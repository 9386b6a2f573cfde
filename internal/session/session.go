// Package session carries the resolved owner identity through a single
// update's handler chain.
package session

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/domain"
)

const contextKey = "session"

// Session is the per-update view of who is talking to the bot.
type Session struct {
	User *domain.User
	Lang string
}

// Inject stores the session on the telebot context for downstream handlers.
func Inject(c telebot.Context, s *Session) {
	if c == nil || s == nil {
		return
	}
	c.Set(contextKey, s)
}

// FromContext returns the session stored by the middleware, or nil.
func FromContext(c telebot.Context) *Session {
	if c == nil {
		return nil
	}
	s, _ := c.Get(contextKey).(*Session)
	return s
}

// OwnerID returns the resolved owner's ID, or an empty string when the
// session is absent.
func OwnerID(c telebot.Context) string {
	if s := FromContext(c); s != nil && s.User != nil {
		return s.User.ID
	}
	return ""
}
