// Package debt contains the pure classification, filtering, and aggregation
// logic for debt records. Nothing in this package performs I/O; callers load
// records through the repository layer and hand them in.
package debt

import (
	"strings"
	"time"

	"github.com/AzamovUSA/debt-control/internal/domain"
)

// DueKind labels the derived due status of a single debt.
type DueKind int

const (
	// KindPaid means the debt is settled; the due date no longer matters.
	KindPaid DueKind = iota
	// KindOverdue means the due date has passed and the debt is unpaid.
	KindOverdue
	// KindDueToday means the debt falls due on the reference date.
	KindDueToday
	// KindDueTomorrow means the debt falls due one day after the reference date.
	KindDueTomorrow
	// KindDueSoon means the debt falls due in two or three days.
	KindDueSoon
	// KindUpcoming means the debt falls due more than three days out.
	KindUpcoming
)

// DueState is the classification of a debt against a reference date.
// Days holds the overdue day count for KindOverdue and the days left for
// KindDueSoon and KindUpcoming; it is zero otherwise.
type DueState struct {
	Kind DueKind
	Days int
}

// Criterion selects which debts a list view shows.
type Criterion string

const (
	CriterionAll    Criterion = "all"
	CriterionUnpaid Criterion = "unpaid"
	CriterionPaid   Criterion = "paid"
)

// Summary holds the aggregate statistics shown above the list.
// UnpaidAmount is a raw numeric sum over whatever currencies the records
// carry; no conversion or normalization is applied.
type Summary struct {
	Total        int
	UnpaidCount  int
	PaidCount    int
	UnpaidAmount float64
}

// Classify derives the due status of a single debt. Paid wins over every
// date-based state. Both dates are reduced to their calendar day before
// subtracting, so time-of-day never influences the result.
func Classify(d domain.Debt, today time.Time) DueState {
	if d.IsPaid() {
		return DueState{Kind: KindPaid}
	}

	days := daysBetween(today, d.DueDate)

	switch {
	case days < 0:
		return DueState{Kind: KindOverdue, Days: -days}
	case days == 0:
		return DueState{Kind: KindDueToday}
	case days == 1:
		return DueState{Kind: KindDueTomorrow}
	case days <= 3:
		return DueState{Kind: KindDueSoon, Days: days}
	default:
		return DueState{Kind: KindUpcoming, Days: days}
	}
}

// Filter returns the debts matching both the status criterion and the
// debtor-name query. The query matches case-insensitively as a substring;
// an empty query matches everything. Input order is preserved and the
// result is always a fresh slice.
func Filter(debts []domain.Debt, criterion Criterion, query string) []domain.Debt {
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.Debt, 0, len(debts))
	for _, d := range debts {
		if !matchesCriterion(d, criterion) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.DebtorName), needle) {
			continue
		}
		out = append(out, d)
	}

	return out
}

// Aggregate computes the summary statistics over the full debt set.
func Aggregate(debts []domain.Debt) Summary {
	var s Summary
	s.Total = len(debts)

	for _, d := range debts {
		if d.IsPaid() {
			s.PaidCount++
			continue
		}
		s.UnpaidCount++
		s.UnpaidAmount += d.Amount
	}

	return s
}

func matchesCriterion(d domain.Debt, criterion Criterion) bool {
	switch criterion {
	case CriterionUnpaid:
		return !d.IsPaid()
	case CriterionPaid:
		return d.IsPaid()
	default:
		return true
	}
}

// daysBetween returns the whole calendar days from a to b, negative when b
// precedes a. Both instants are pinned to UTC midnight of their calendar
// date first, which keeps the subtraction exact across DST shifts.
func daysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)) / (24 * time.Hour))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
