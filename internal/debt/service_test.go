package debt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AzamovUSA/debt-control/internal/domain"
	"github.com/AzamovUSA/debt-control/internal/repository"
)

type mockDebtRepo struct {
	mock.Mock
}

func (m *mockDebtRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Debt, error) {
	args := m.Called(ctx, ownerID)
	debts, _ := args.Get(0).([]domain.Debt)
	return debts, args.Error(1)
}

func (m *mockDebtRepo) FindByID(ctx context.Context, id string) (*domain.Debt, error) {
	args := m.Called(ctx, id)
	debt, _ := args.Get(0).(*domain.Debt)
	return debt, args.Error(1)
}

func (m *mockDebtRepo) Insert(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *mockDebtRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, paidAt *time.Time) error {
	args := m.Called(ctx, id, status, paidAt)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceAdd(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("trims fields and defaults the currency", func(t *testing.T) {
		repo := new(mockDebtRepo)
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(repo, testLogger())
		created, err := svc.Add(context.Background(), "owner-1", AddInput{
			DebtorName: "  Ana  ",
			Phone:      " +998 90 000 00 00 ",
			Amount:     250,
			DueDate:    due,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ana", created.DebtorName)
		assert.Equal(t, "+998 90 000 00 00", created.Phone)
		assert.Equal(t, domain.DefaultCurrency, created.Currency)
		assert.Equal(t, domain.StatusUnpaid, created.Status)
		assert.Nil(t, created.PaidAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects blank debtor name before hitting the store", func(t *testing.T) {
		repo := new(mockDebtRepo)
		svc := NewService(repo, testLogger())

		_, err := svc.Add(context.Background(), "owner-1", AddInput{
			DebtorName: "   ",
			Amount:     250,
			DueDate:    due,
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := new(mockDebtRepo)
		svc := NewService(repo, testLogger())

		_, err := svc.Add(context.Background(), "owner-1", AddInput{
			DebtorName: "Ana",
			Amount:     0,
			DueDate:    due,
		})

		require.Error(t, err)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		repo := new(mockDebtRepo)
		repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		svc := NewService(repo, testLogger())
		_, err := svc.Add(context.Background(), "owner-1", AddInput{
			DebtorName: "Ana",
			Amount:     250,
			DueDate:    due,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "add debt")
	})
}

func TestServiceMarkPaid(t *testing.T) {
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("settles an unpaid debt", func(t *testing.T) {
		repo := new(mockDebtRepo)
		repo.On("FindByID", mock.Anything, "debt-1").Return(&domain.Debt{
			ID:     "debt-1",
			Status: domain.StatusUnpaid,
		}, nil)
		repo.On("UpdateStatus", mock.Anything, "debt-1", domain.StatusPaid, mock.Anything).Return(nil)

		svc := NewService(repo, testLogger())
		settled, changed, err := svc.MarkPaid(context.Background(), "debt-1", now)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, domain.StatusPaid, settled.Status)
		require.NotNil(t, settled.PaidAt)
		assert.Equal(t, now, *settled.PaidAt)
		repo.AssertExpectations(t)
	})

	t.Run("repeat settle never touches the store", func(t *testing.T) {
		paidAt := now.Add(-24 * time.Hour)
		repo := new(mockDebtRepo)
		repo.On("FindByID", mock.Anything, "debt-1").Return(&domain.Debt{
			ID:     "debt-1",
			Status: domain.StatusPaid,
			PaidAt: &paidAt,
		}, nil)

		svc := NewService(repo, testLogger())
		settled, changed, err := svc.MarkPaid(context.Background(), "debt-1", now)

		require.NoError(t, err)
		assert.False(t, changed)
		require.NotNil(t, settled.PaidAt)
		assert.Equal(t, paidAt, *settled.PaidAt)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		repo := new(mockDebtRepo)
		repo.On("FindByID", mock.Anything, "missing").Return(nil, errors.New("no rows"))

		svc := NewService(repo, testLogger())
		_, changed, err := svc.MarkPaid(context.Background(), "missing", now)

		require.Error(t, err)
		assert.False(t, changed)
	})

	t.Run("keeps not-found recognizable", func(t *testing.T) {
		repo := new(mockDebtRepo)
		repo.On("FindByID", mock.Anything, "gone").Return(nil, repository.ErrDebtNotFound)

		svc := NewService(repo, testLogger())
		_, _, err := svc.MarkPaid(context.Background(), "gone", now)

		assert.ErrorIs(t, err, repository.ErrDebtNotFound)
	})
}
