package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
	apperrors "github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/state"
)

// Accepted due date layouts. The first one is shown in prompts.
var dueDateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006"}

// NewAddHandler starts the add-debt conversation.
func NewAddHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := context.Background()
		t := d.Translator(c)

		if err := d.FSM.SetState(ctx, sender.ID, state.StateAddName, map[string]interface{}{}); err != nil {
			return err
		}

		return c.Send(t.T("add.prompt_name"))
	}
}

// NewNameStepHandler validates the debtor name and asks for the phone.
func NewNameStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		t := d.Translator(c)
		name := strings.TrimSpace(c.Text())
		if name == "" {
			return c.Send(t.T("add.invalid_name"))
		}

		ctx := context.Background()
		if err := advanceDraft(ctx, d, sender.ID, state.StateAddPhone, state.DraftDebtorName, name); err != nil {
			return err
		}

		return c.Send(t.T("add.prompt_phone"), d.Keyboard.SkipButton(t, state.DraftPhone))
	}
}

// NewPhoneStepHandler records the optional phone and asks for the amount.
func NewPhoneStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		t := d.Translator(c)
		phone := strings.TrimSpace(c.Text())

		ctx := context.Background()
		if err := advanceDraft(ctx, d, sender.ID, state.StateAddAmount, state.DraftPhone, phone); err != nil {
			return err
		}

		return c.Send(t.T("add.prompt_amount"))
	}
}

// NewAmountStepHandler parses the amount and asks for the currency.
func NewAmountStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		t := d.Translator(c)
		raw := strings.ReplaceAll(strings.TrimSpace(c.Text()), ",", ".")
		raw = strings.ReplaceAll(raw, " ", "")

		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount <= 0 {
			return c.Send(t.T("add.invalid_amount"))
		}

		ctx := context.Background()
		if err := advanceDraft(ctx, d, sender.ID, state.StateAddCurrency, state.DraftAmount, amount); err != nil {
			return err
		}

		return c.Send(t.T("add.prompt_currency"), d.Keyboard.CurrencyButtons())
	}
}

// NewCurrencyStepHandler accepts a typed currency code. Button presses go
// through HandleCurrencyPick instead.
func NewCurrencyStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		currency := strings.ToUpper(strings.TrimSpace(c.Text()))
		if currency == "" || len(currency) > 8 {
			currency = d.DefaultCurrency
		}

		return applyCurrency(c, d, currency)
	}
}

// HandleCurrencyPick handles the currency quick buttons.
func HandleCurrencyPick(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		_, currency, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil || currency == "" {
			currency = d.DefaultCurrency
		}

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}

		return applyCurrency(c, d, currency)
	}
}

func applyCurrency(c telebot.Context, d *Deps, currency string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx := context.Background()
	t := d.Translator(c)

	if err := advanceDraft(ctx, d, sender.ID, state.StateAddDueDate, state.DraftCurrency, currency); err != nil {
		return err
	}

	return c.Send(t.T("add.prompt_due_date"))
}

// NewDueDateStepHandler parses the due date and asks for the note.
func NewDueDateStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		t := d.Translator(c)
		raw := strings.TrimSpace(c.Text())

		var due time.Time
		var parseErr error
		for _, layout := range dueDateLayouts {
			due, parseErr = time.Parse(layout, raw)
			if parseErr == nil {
				break
			}
		}
		if parseErr != nil {
			return c.Send(t.T("add.invalid_date"))
		}

		ctx := context.Background()
		if err := advanceDraft(ctx, d, sender.ID, state.StateAddNote, state.DraftDueDate, due.Format("2006-01-02")); err != nil {
			return err
		}

		return c.Send(t.T("add.prompt_note"), d.Keyboard.SkipButton(t, state.DraftNote))
	}
}

// NewNoteStepHandler records the optional note and shows the confirmation.
func NewNoteStepHandler(d *Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		note := strings.TrimSpace(c.Text())

		ctx := context.Background()
		if err := advanceDraft(ctx, d, sender.ID, state.StateAddConfirm, state.DraftNote, note); err != nil {
			return err
		}

		return sendConfirmation(c, d)
	}
}

// HandleSkip skips the optional phone or note step.
func HandleSkip(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		cb := c.Callback()
		if sender == nil || cb == nil {
			return nil
		}

		_, field, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			return err
		}

		ctx := context.Background()
		t := d.Translator(c)

		switch field {
		case state.DraftPhone:
			if err := advanceDraft(ctx, d, sender.ID, state.StateAddAmount, state.DraftPhone, ""); err != nil {
				return err
			}
			return c.Send(t.T("add.prompt_amount"))
		case state.DraftNote:
			if err := advanceDraft(ctx, d, sender.ID, state.StateAddConfirm, state.DraftNote, ""); err != nil {
				return err
			}
			return sendConfirmation(c, d)
		}

		return nil
	}
}

// HandleAddConfirm saves the confirmed draft.
func HandleAddConfirm(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := context.Background()
		t := d.Translator(c)

		input, err := draftInput(ctx, d, sender.ID)
		if err != nil {
			d.Log.Error("failed to restore draft",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
			return c.Respond(&telebot.CallbackResponse{Text: t.T("errors.generic"), ShowAlert: true})
		}

		created, err := d.Debts.Add(ctx, session.OwnerID(c), input)
		if err != nil {
			return c.Respond(&telebot.CallbackResponse{Text: t.T("errors.generic"), ShowAlert: true})
		}

		if err := d.FSM.ClearState(ctx, sender.ID); err != nil {
			d.Log.Warn("failed to clear state after save",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
		}

		if err := c.Respond(&telebot.CallbackResponse{Text: t.T("add.saved")}); err != nil {
			return err
		}

		if err := c.Send(expand(t.T("add.saved_details"), map[string]string{
			"Name":   created.DebtorName,
			"Amount": debt.FormatAmount(created.Amount, created.Currency),
			"Date":   debt.FormatDate(created.DueDate),
		})); err != nil {
			return err
		}

		return renderList(c, d, 1, false)
	}
}

// HandleAddCancel abandons the draft.
func HandleAddCancel(d *Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := context.Background()
		t := d.Translator(c)

		if err := d.FSM.ClearState(ctx, sender.ID); err != nil {
			return err
		}

		return c.Respond(&telebot.CallbackResponse{Text: t.T("add.cancelled")})
	}
}

// advanceDraft stores a draft field and moves the flow to the next state.
func advanceDraft(ctx context.Context, d *Deps, userID int64, next state.State, key string, value interface{}) error {
	draft := map[string]interface{}{}
	if current, err := d.FSM.GetState(ctx, userID); err == nil && current != nil && current.Context != nil {
		draft = current.Context
	}
	draft[key] = value

	return d.FSM.SetState(ctx, userID, next, draft)
}

func sendConfirmation(c telebot.Context, d *Deps) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx := context.Background()
	t := d.Translator(c)

	input, err := draftInput(ctx, d, sender.ID)
	if err != nil {
		return err
	}

	phone := input.Phone
	if phone == "" {
		phone = "—"
	}
	note := input.Note
	if note == "" {
		note = "—"
	}

	text := expand(t.T("add.confirm"), map[string]string{
		"Name":   input.DebtorName,
		"Phone":  phone,
		"Amount": debt.FormatAmount(input.Amount, input.Currency),
		"Date":   debt.FormatDate(input.DueDate),
		"Note":   note,
	})

	return c.Send(text, d.Keyboard.ConfirmButtons(t))
}

// draftInput reconstructs an AddInput from the FSM draft context.
func draftInput(ctx context.Context, d *Deps, userID int64) (debt.AddInput, error) {
	var input debt.AddInput

	userState, err := d.FSM.GetState(ctx, userID)
	if err != nil {
		return input, err
	}
	if userState.Context == nil {
		return input, apperrors.NewStateError("add flow draft is empty")
	}
	draft := userState.Context

	input.DebtorName, _ = draft[state.DraftDebtorName].(string)
	input.Phone, _ = draft[state.DraftPhone].(string)
	input.Currency, _ = draft[state.DraftCurrency].(string)
	input.Note, _ = draft[state.DraftNote].(string)
	if input.Currency == "" {
		input.Currency = d.DefaultCurrency
	}

	switch v := draft[state.DraftAmount].(type) {
	case float64:
		input.Amount = v
	case string:
		input.Amount, _ = strconv.ParseFloat(v, 64)
	}

	if raw, ok := draft[state.DraftDueDate].(string); ok {
		input.DueDate, _ = time.Parse("2006-01-02", raw)
	}

	return input, nil
}
