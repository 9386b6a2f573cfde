package keyboard

import (
	"fmt"
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/domain"
	"github.com/AzamovUSA/debt-control/internal/i18n"
)

// Callback uniques shared between the keyboard builder and the router.
const (
	UniqueFilter     = "filter"
	UniquePage       = "page"
	UniquePaid       = "paid"
	UniqueCurrency   = "currency"
	UniqueSkip       = "skip"
	UniqueAddConfirm = "add_confirm"
	UniqueAddCancel  = "add_cancel"
)

// Builder renders the inline keyboards of the debt book views.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{log: log}
}

// ListView renders the filter tabs with live counts, one mark-paid button
// per visible unpaid debt, and pagination controls for the current page.
func (b *Builder) ListView(t i18n.Translator, active debt.Criterion, summary debt.Summary, visible []domain.Debt, page, totalPages int) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()
	kb.AddRow(b.filterTabs(t, active, summary)...)

	for _, d := range visible {
		if d.IsPaid() {
			continue
		}
		kb.AddRow(InlineButton{
			Text:   "✅ " + d.DebtorName,
			Unique: UniquePaid,
			Data:   d.ID,
		})
	}

	if totalPages > 1 {
		kb.AddRow(PaginationButtons(t, UniquePage, page, totalPages)...)
	}

	return kb.Build(b.encode)
}

func (b *Builder) filterTabs(t i18n.Translator, active debt.Criterion, summary debt.Summary) []InlineButton {
	tabs := []struct {
		criterion debt.Criterion
		key       string
		count     int
	}{
		{debt.CriterionAll, "filter.all", summary.Total},
		{debt.CriterionUnpaid, "filter.unpaid", summary.UnpaidCount},
		{debt.CriterionPaid, "filter.paid", summary.PaidCount},
	}

	row := make([]InlineButton, 0, len(tabs))
	for _, tab := range tabs {
		text := fmt.Sprintf("%s (%d)", t.T(tab.key), tab.count)
		if tab.criterion == active {
			text = "• " + text
		}
		row = append(row, InlineButton{
			Text:   text,
			Unique: UniqueFilter,
			Data:   string(tab.criterion),
		})
	}
	return row
}

// CurrencyButtons offers the quick currency choices during the add flow.
// Any other code can still be typed in.
func (b *Builder) CurrencyButtons() *telebot.ReplyMarkup {
	currencies := []string{"UZS", "USD"}
	row := make([]InlineButton, 0, len(currencies))
	for _, cur := range currencies {
		row = append(row, InlineButton{
			Text:   cur,
			Unique: UniqueCurrency,
			Data:   cur,
		})
	}

	return NewInlineKeyboard().AddRow(row...).Build(b.encode)
}

// SkipButton renders a single skip button for optional add-flow fields.
func (b *Builder) SkipButton(t i18n.Translator, field string) *telebot.ReplyMarkup {
	return NewInlineKeyboard().AddRow(InlineButton{
		Text:   t.T("common.skip"),
		Unique: UniqueSkip,
		Data:   field,
	}).Build(b.encode)
}

// ConfirmButtons renders the confirm and cancel pair shown before a draft
// debt is saved.
func (b *Builder) ConfirmButtons(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().AddRow(
		InlineButton{Text: t.T("common.confirm"), Unique: UniqueAddConfirm},
		InlineButton{Text: t.T("common.cancel"), Unique: UniqueAddCancel},
	).Build(b.encode)
}

// PageData encodes a page number for pagination callbacks.
func PageData(page int) string {
	return strconv.Itoa(page)
}

func (b *Builder) encode(unique, data string) string {
	payload, err := EncodeCallback(unique, data)
	if err != nil {
		if b.log != nil {
			b.log.Error("callback data too long", slog.String("unique", unique), slog.Any("error", err))
		}
		return unique
	}
	return payload
}
