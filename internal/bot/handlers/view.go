package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/domain"
	"github.com/AzamovUSA/debt-control/internal/i18n"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/state"
)

// View preference keys stored alongside the idle state.
const (
	viewFilterKey = "view_filter"
	viewQueryKey  = "view_query"
)

// viewPrefs is the list view selection the user last made.
type viewPrefs struct {
	criterion debt.Criterion
	query     string
}

func loadViewPrefs(ctx context.Context, d *Deps, userID int64) viewPrefs {
	prefs := viewPrefs{criterion: debt.CriterionAll}

	userState, err := d.FSM.GetState(ctx, userID)
	if err != nil || userState == nil {
		return prefs
	}

	if raw, ok := userState.Context[viewFilterKey].(string); ok && raw != "" {
		prefs.criterion = debt.Criterion(raw)
	}
	if raw, ok := userState.Context[viewQueryKey].(string); ok {
		prefs.query = raw
	}

	return prefs
}

func saveViewPrefs(ctx context.Context, d *Deps, userID int64, prefs viewPrefs) {
	// A tab press on an older list message must not discard an in-flight
	// add draft by forcing the flow back to idle.
	if current, err := d.FSM.GetState(ctx, userID); err == nil && current != nil &&
		current.CurrentState != state.StateIdle {
		return
	}

	data := map[string]interface{}{
		viewFilterKey: string(prefs.criterion),
		viewQueryKey:  prefs.query,
	}

	if err := d.FSM.SetState(ctx, userID, state.StateIdle, data); err != nil {
		d.Log.Warn("failed to persist view preferences",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// renderList builds and sends the debt book view. When edit is true the
// previous message is updated in place instead of sending a new one.
func renderList(c telebot.Context, d *Deps, page int, edit bool) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ownerID := session.OwnerID(c)
	if ownerID == "" {
		return nil
	}

	ctx := context.Background()
	t := d.Translator(c)
	prefs := loadViewPrefs(ctx, d, sender.ID)

	all, err := d.Debts.List(ctx, ownerID)
	if err != nil {
		// The service already logged the failure. Keep whatever view the
		// user last saw instead of replacing it with an error.
		return nil
	}

	if len(all) == 0 {
		text := t.T("list.empty") + "\n\n" + t.T("list.empty_hint")
		if edit {
			return editOrSend(c, text, nil)
		}
		return c.Send(text)
	}

	visible := debt.Filter(all, prefs.criterion, prefs.query)
	summary := debt.Aggregate(all)

	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}

	totalPages := (len(visible) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(visible) {
		end = len(visible)
	}
	pageDebts := visible[start:end]

	today := time.Now()
	var b strings.Builder

	b.WriteString(expand(t.T("list.summary"), map[string]string{
		"Total":  strconv.Itoa(summary.Total),
		"Unpaid": strconv.Itoa(summary.UnpaidCount),
		"Paid":   strconv.Itoa(summary.PaidCount),
		"Amount": debt.FormatAmount(summary.UnpaidAmount, d.DefaultCurrency),
	}))
	b.WriteString("\n")

	if prefs.query != "" {
		b.WriteString("\n")
		b.WriteString(expand(t.T("list.search_active"), map[string]string{"Query": prefs.query}))
		b.WriteString("\n")
	}

	if len(pageDebts) == 0 {
		b.WriteString("\n")
		b.WriteString(t.T("list.no_matches"))
	}

	for _, item := range pageDebts {
		b.WriteString("\n")
		b.WriteString(debtLine(t, item, today))
	}

	markup := d.Keyboard.ListView(t, prefs.criterion, summary, pageDebts, page, totalPages)

	if edit {
		return editOrSend(c, b.String(), markup)
	}
	return c.Send(b.String(), markup)
}

// debtLine renders one debt as a status icon, the debtor, the amount, and
// the due information.
func debtLine(t i18n.Translator, d domain.Debt, today time.Time) string {
	ds := debt.Classify(d, today)

	var b strings.Builder
	b.WriteString(dueIcon(ds.Kind))
	b.WriteString(" ")
	b.WriteString(d.DebtorName)
	b.WriteString(" — ")
	b.WriteString(debt.FormatAmount(d.Amount, d.Currency))
	b.WriteString("\n    ")
	b.WriteString(dueLabel(t, ds))
	b.WriteString(" · ")
	b.WriteString(debt.FormatDate(d.DueDate))

	if d.Phone != "" {
		b.WriteString("\n    📞 ")
		b.WriteString(d.Phone)
	}
	if d.Note != "" {
		b.WriteString("\n    💬 ")
		b.WriteString(d.Note)
	}

	return b.String()
}

func dueIcon(kind debt.DueKind) string {
	switch kind {
	case debt.KindPaid:
		return "✅"
	case debt.KindOverdue:
		return "🔴"
	case debt.KindDueToday:
		return "🟠"
	case debt.KindDueTomorrow, debt.KindDueSoon:
		return "🟡"
	default:
		return "🟢"
	}
}

func dueLabel(t i18n.Translator, ds debt.DueState) string {
	days := map[string]string{"Days": strconv.Itoa(ds.Days)}

	switch ds.Kind {
	case debt.KindPaid:
		return t.T("due.paid")
	case debt.KindOverdue:
		return expand(t.T("due.overdue"), days)
	case debt.KindDueToday:
		return t.T("due.today")
	case debt.KindDueTomorrow:
		return t.T("due.tomorrow")
	case debt.KindDueSoon:
		return expand(t.T("due.soon"), days)
	default:
		return expand(t.T("due.upcoming"), days)
	}
}

// expand substitutes {{.Name}} placeholders in a translated template.
func expand(template string, values map[string]string) string {
	for name, value := range values {
		template = strings.ReplaceAll(template, "{{."+name+"}}", value)
	}
	return template
}

// editOrSend edits the message behind a callback, falling back to a fresh
// message when Telegram rejects the edit (e.g. identical content).
func editOrSend(c telebot.Context, text string, markup *telebot.ReplyMarkup) error {
	var err error
	if markup != nil {
		err = c.Edit(text, markup)
	} else {
		err = c.Edit(text)
	}

	if err == nil || errors.Is(err, telebot.ErrSameMessageContent) {
		return nil
	}

	if markup != nil {
		return c.Send(text, markup)
	}
	return c.Send(text)
}
