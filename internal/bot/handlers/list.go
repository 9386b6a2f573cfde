package handlers

import (
	"context"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
)

// NewListHandler shows the debt book with the owner's saved filter.
func NewListHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		return renderList(c, d, 1, false)
	}
}

// HandleFilter switches the active filter tab and re-renders the view.
func HandleFilter(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		cb := c.Callback()
		if sender == nil || cb == nil {
			return nil
		}

		_, data, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		criterion := debt.Criterion(data)
		switch criterion {
		case debt.CriterionAll, debt.CriterionUnpaid, debt.CriterionPaid:
		default:
			criterion = debt.CriterionAll
		}

		ctx := context.Background()
		prefs := loadViewPrefs(ctx, d, sender.ID)
		prefs.criterion = criterion
		saveViewPrefs(ctx, d, sender.ID, prefs)

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}
		return renderList(c, d, 1, true)
	}
}

// HandlePage jumps to the requested page of the current view.
func HandlePage(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		_, data, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		page, err := strconv.Atoi(data)
		if err != nil || page < 1 {
			page = 1
		}

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}
		return renderList(c, d, page, true)
	}
}

// NewSearchHandler treats free text typed while idle as a debtor name
// search. An empty message or a lone "-" clears the query.
func NewSearchHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		query := strings.TrimSpace(c.Text())
		if query == "-" {
			query = ""
		}

		ctx := context.Background()
		prefs := loadViewPrefs(ctx, d, sender.ID)
		prefs.query = query
		saveViewPrefs(ctx, d, sender.ID, prefs)

		return renderList(c, d, 1, false)
	}
}
