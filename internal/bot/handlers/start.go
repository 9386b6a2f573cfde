package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/state"
)

// NewStartHandler greets the owner, resets any stale flow state, and shows
// the debt book.
func NewStartHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := context.Background()
		t := d.Translator(c)

		if _, err := d.FSM.GetState(ctx, sender.ID); err != nil {
			if !errors.Is(err, state.ErrStateNotFound) {
				d.Log.Error("failed to fetch user state",
					slog.Int64("telegram_id", sender.ID),
					slog.Any("error", err),
				)
				return err
			}
			if setErr := d.FSM.SetState(ctx, sender.ID, state.StateIdle, nil); setErr != nil {
				return setErr
			}
		}

		name := ""
		premium := false
		if s := session.FromContext(c); s != nil && s.User != nil {
			name = s.User.Name
			premium = s.User.IsPremium
		}

		greeting := expand(t.T("start.welcome"), map[string]string{"Name": name})
		if premium {
			greeting += " ⭐"
		}

		if err := c.Send(greeting, keyboard.MainMenu(t)); err != nil {
			return err
		}

		return renderList(c, d, 1, false)
	}
}
