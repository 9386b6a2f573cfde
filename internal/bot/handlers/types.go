package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/i18n"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/state"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Deps bundles the services every handler needs.
type Deps struct {
	Debts           *debt.Service
	FSM             state.StateMachine
	Keyboard        *keyboard.Builder
	I18n            *i18n.Manager
	PageSize        int
	DefaultCurrency string
	Log             *slog.Logger
}

// Translator picks the catalog matching the session language.
func (d *Deps) Translator(c telebot.Context) i18n.Translator {
	lang := ""
	if s := session.FromContext(c); s != nil {
		lang = s.Lang
	}
	return d.I18n.Translator(lang)
}
