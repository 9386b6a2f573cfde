package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a debt. The only legal transition is
// unpaid to paid; there is no way back.
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

// DefaultCurrency is used when a debt is created without an explicit currency.
const DefaultCurrency = "UZS"

// ErrEmptyDebtorName indicates a debt without a debtor display name.
var ErrEmptyDebtorName = errors.New("debtor name must not be empty")

// ErrNonPositiveAmount indicates a debt amount of zero or below.
var ErrNonPositiveAmount = errors.New("debt amount must be positive")

// Debt is a record of money owed to the application user by a named debtor.
// PaidAt is non-nil exactly when Status is StatusPaid.
type Debt struct {
	ID         string
	OwnerID    string
	DebtorName string
	Phone      string
	Amount     float64
	Currency   string
	DueDate    time.Time
	Status     Status
	Note       string
	CreatedAt  time.Time
	PaidAt     *time.Time
}

// IsPaid reports whether the debt has been settled.
func (d *Debt) IsPaid() bool {
	return d.Status == StatusPaid
}

// MarkPaid transitions the debt to paid, recording the settlement time.
// Marking an already-paid debt is a no-op and reports false, leaving the
// original PaidAt untouched.
func (d *Debt) MarkPaid(now time.Time) bool {
	if d.IsPaid() {
		return false
	}

	ts := now.UTC()
	d.Status = StatusPaid
	d.PaidAt = &ts
	return true
}

// Validate checks the creation invariants of a debt record.
func (d *Debt) Validate() error {
	if d.DebtorName == "" {
		return ErrEmptyDebtorName
	}
	if d.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}
