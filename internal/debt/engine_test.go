package debt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzamovUSA/debt-control/internal/domain"
)

func mkDebt(name string, amount float64, due time.Time, status domain.Status) domain.Debt {
	return domain.Debt{
		DebtorName: name,
		Amount:     amount,
		Currency:   "UZS",
		DueDate:    due,
		Status:     status,
	}
}

func TestClassify(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		today  time.Time
		status domain.Status
		want   DueState
	}{
		{
			name:  "due today",
			today: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindDueToday},
		},
		{
			name:  "due today regardless of time of day",
			today: time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC),
			want:  DueState{Kind: KindDueToday},
		},
		{
			name:  "overdue by three days",
			today: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindOverdue, Days: 3},
		},
		{
			name:  "due tomorrow",
			today: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindDueTomorrow},
		},
		{
			name:  "overdue by one day",
			today: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindOverdue, Days: 1},
		},
		{
			name:  "due soon at two days out",
			today: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindDueSoon, Days: 2},
		},
		{
			name:  "due soon at three days out",
			today: time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindDueSoon, Days: 3},
		},
		{
			name:  "upcoming beyond three days",
			today: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			want:  DueState{Kind: KindUpcoming, Days: 10},
		},
		{
			name:   "paid wins over overdue",
			today:  time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
			status: domain.StatusPaid,
			want:   DueState{Kind: KindPaid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			if status == "" {
				status = domain.StatusUnpaid
			}
			got := Classify(mkDebt("Ana", 100, due, status), tt.today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	debts := []domain.Debt{
		mkDebt("Ana", 100, due, domain.StatusUnpaid),
		mkDebt("Bob", 200, due, domain.StatusPaid),
		mkDebt("DIANA", 300, due, domain.StatusUnpaid),
	}

	t.Run("criterion partitions the set", func(t *testing.T) {
		unpaid := Filter(debts, CriterionUnpaid, "")
		paid := Filter(debts, CriterionPaid, "")
		all := Filter(debts, CriterionAll, "")

		assert.Len(t, all, 3)
		assert.Len(t, unpaid, 2)
		assert.Len(t, paid, 1)
		assert.Equal(t, len(all), len(unpaid)+len(paid))
	})

	t.Run("query matches case-insensitive substrings", func(t *testing.T) {
		got := Filter(debts, CriterionAll, "ana")
		require.Len(t, got, 2)
		assert.Equal(t, "Ana", got[0].DebtorName)
		assert.Equal(t, "DIANA", got[1].DebtorName)
	})

	t.Run("query combines with criterion", func(t *testing.T) {
		got := Filter(debts, CriterionPaid, "ana")
		assert.Empty(t, got)
	})

	t.Run("preserves input order", func(t *testing.T) {
		got := Filter(debts, CriterionAll, "")
		require.Len(t, got, 3)
		assert.Equal(t, "Ana", got[0].DebtorName)
		assert.Equal(t, "Bob", got[1].DebtorName)
		assert.Equal(t, "DIANA", got[2].DebtorName)
	})

	t.Run("result is a fresh slice", func(t *testing.T) {
		got := Filter(debts, CriterionAll, "")
		got[0].DebtorName = "mutated"
		assert.Equal(t, "Ana", debts[0].DebtorName)
	})
}

func TestAggregate(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("empty set", func(t *testing.T) {
		got := Aggregate(nil)
		assert.Equal(t, Summary{}, got)
	})

	t.Run("counts and raw unpaid sum", func(t *testing.T) {
		debts := []domain.Debt{
			mkDebt("Ana", 1500000, due, domain.StatusUnpaid),
			mkDebt("Bob", 200, due, domain.StatusUnpaid),
			mkDebt("Carl", 999, due, domain.StatusPaid),
		}

		got := Aggregate(debts)
		assert.Equal(t, 3, got.Total)
		assert.Equal(t, 2, got.UnpaidCount)
		assert.Equal(t, 1, got.PaidCount)
		// Mixed currencies sum as-is; paid amounts are excluded.
		assert.InDelta(t, 1500200, got.UnpaidAmount, 0.001)
	})
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
}
