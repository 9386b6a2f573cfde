package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaid(t *testing.T) {
	t.Run("settles an unpaid debt", func(t *testing.T) {
		d := Debt{Status: StatusUnpaid}
		now := time.Date(2024, 6, 10, 12, 30, 0, 0, time.FixedZone("UZT", 5*3600))

		changed := d.MarkPaid(now)

		require.True(t, changed)
		assert.Equal(t, StatusPaid, d.Status)
		require.NotNil(t, d.PaidAt)
		assert.Equal(t, now.UTC(), *d.PaidAt)
	})

	t.Run("second settle is a no-op", func(t *testing.T) {
		d := Debt{Status: StatusUnpaid}
		first := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		require.True(t, d.MarkPaid(first))

		changed := d.MarkPaid(first.Add(48 * time.Hour))

		assert.False(t, changed)
		require.NotNil(t, d.PaidAt)
		assert.Equal(t, first, *d.PaidAt)
	})
}

func TestValidate(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("accepts a well-formed debt", func(t *testing.T) {
		d := Debt{DebtorName: "Ana", Amount: 100, DueDate: due, Status: StatusUnpaid}
		assert.NoError(t, d.Validate())
	})

	t.Run("rejects empty debtor name", func(t *testing.T) {
		d := Debt{Amount: 100, DueDate: due, Status: StatusUnpaid}
		assert.ErrorIs(t, d.Validate(), ErrEmptyDebtorName)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		d := Debt{DebtorName: "Ana", Amount: 0, DueDate: due, Status: StatusUnpaid}
		assert.ErrorIs(t, d.Validate(), ErrNonPositiveAmount)
	})
}
