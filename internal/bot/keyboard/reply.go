package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/i18n"
)

// MainMenu builds a localized reply keyboard with the two entry points of
// the debt book.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	addBtn := markup.Text(lookup("menu.add"))
	listBtn := markup.Text(lookup("menu.list"))

	markup.Reply(
		markup.Row(addBtn, listBtn),
	)

	return markup
}
