package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
)

// NewCancelHandler resets any in-progress flow and shows the debt book again.
func NewCancelHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			d.Log.Warn("cancel handler invoked without sender context")
			return nil
		}

		ctx := context.Background()
		t := d.Translator(c)

		if err := d.FSM.ClearState(ctx, sender.ID); err != nil {
			d.Log.Error("failed to clear user state",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
			return err
		}

		if err := c.Send(t.T("add.cancelled"), keyboard.MainMenu(t)); err != nil {
			return err
		}

		return renderList(c, d, 1, false)
	}
}
