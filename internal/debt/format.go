package debt

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/AzamovUSA/debt-control/internal/domain"
)

// The original client formats amounts with the uz-UZ locale regardless of
// the record's currency code.
var amountPrinter = message.NewPrinter(language.MustParse("uz"))

// FormatAmount renders an amount with locale digit grouping followed by the
// currency code, e.g. "1 500 000 UZS". Whole values carry no decimal places.
func FormatAmount(amount float64, currency string) string {
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	return amountPrinter.Sprintf("%v %s", number.Decimal(amount), currency)
}

// FormatDate renders a calendar date the way the list view shows created,
// due, and paid dates.
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
