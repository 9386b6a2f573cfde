package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/repository"
)

// HandleMarkPaid settles a debt from its inline button. Pressing the button
// again after the debt is settled acknowledges without touching the record.
func HandleMarkPaid(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		t := d.Translator(c)

		_, id, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil || id == "" {
			return c.Respond(&telebot.CallbackResponse{Text: t.T("errors.generic"), ShowAlert: true})
		}

		ctx := context.Background()
		settled, changed, err := d.Debts.MarkPaid(ctx, id, time.Now())
		if err != nil {
			if errors.Is(err, repository.ErrDebtNotFound) {
				return c.Respond(&telebot.CallbackResponse{Text: t.T("paid.not_found"), ShowAlert: true})
			}
			d.Log.Error("mark paid failed", slog.String("debt_id", id), slog.Any("error", err))
			return c.Respond(&telebot.CallbackResponse{Text: t.T("errors.generic"), ShowAlert: true})
		}

		text := t.T("paid.already")
		if changed {
			text = expand(t.T("paid.done"), map[string]string{"Name": settled.DebtorName})
		}

		if err := c.Respond(&telebot.CallbackResponse{Text: text}); err != nil {
			return err
		}

		return renderList(c, d, 1, true)
	}
}
