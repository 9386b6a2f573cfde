package debt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/AzamovUSA/debt-control/internal/domain"
	apperrors "github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/repository"
	"github.com/AzamovUSA/debt-control/pkg/metrics"
)

// AddInput carries the fields collected for a new debt before insertion.
type AddInput struct {
	DebtorName string    `validate:"required"`
	Phone      string    `validate:"omitempty,max=32"`
	Amount     float64   `validate:"required,gt=0"`
	Currency   string    `validate:"omitempty,max=8"`
	DueDate    time.Time `validate:"required"`
	Note       string    `validate:"omitempty,max=500"`
}

// Service provides store-facing operations over debts. Every method may fail
// with a transient store error; callers at the presentation layer log and
// continue rather than surfacing errors to the user.
type Service struct {
	repo     repository.DebtRepository
	validate *validator.Validate
	log      *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.DebtRepository, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// List returns the owner's debts, newest-created first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Debt, error) {
	debts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logError("list", ownerID, err)
		metrics.RecordStoreFailure("list")
		return nil, apperrors.NewStoreError(fmt.Errorf("list debts: %w", err))
	}

	return debts, nil
}

// Add validates the input and inserts a new debt for the owner. The record
// starts unpaid with no settlement timestamp.
func (s *Service) Add(ctx context.Context, ownerID string, input AddInput) (*domain.Debt, error) {
	input.DebtorName = strings.TrimSpace(input.DebtorName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Note = strings.TrimSpace(input.Note)

	if input.Currency == "" {
		input.Currency = domain.DefaultCurrency
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid debt input: %v", err))
	}

	debt := &domain.Debt{
		OwnerID:    ownerID,
		DebtorName: input.DebtorName,
		Phone:      input.Phone,
		Amount:     input.Amount,
		Currency:   input.Currency,
		DueDate:    input.DueDate,
		Status:     domain.StatusUnpaid,
		Note:       input.Note,
	}

	if err := s.repo.Insert(ctx, debt); err != nil {
		s.logError("add", ownerID, err)
		metrics.RecordStoreFailure("insert")
		return nil, apperrors.NewStoreError(fmt.Errorf("add debt: %w", err))
	}

	metrics.RecordDebtCreated(debt.Currency)

	return debt, nil
}

// MarkPaid settles a debt, stamping the settlement time. Settling an
// already-paid debt is a no-op: the stored status and paid_at stay untouched
// and the second return value reports false.
func (s *Service) MarkPaid(ctx context.Context, id string, now time.Time) (*domain.Debt, bool, error) {
	debt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDebtNotFound) {
			return nil, false, err
		}
		s.logError("mark_paid.find", id, err)
		metrics.RecordStoreFailure("find")
		return nil, false, apperrors.NewStoreError(fmt.Errorf("find debt: %w", err))
	}

	if !debt.MarkPaid(now) {
		if s.log != nil {
			s.log.Debug("debt already paid, skipping", slog.String("debt_id", id))
		}
		return debt, false, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, debt.Status, debt.PaidAt); err != nil {
		s.logError("mark_paid.update", id, err)
		metrics.RecordStoreFailure("update")
		return nil, false, apperrors.NewStoreError(fmt.Errorf("mark debt paid: %w", err))
	}

	metrics.RecordDebtPaid(debt.Currency)

	return debt, true, nil
}

func (s *Service) logError(operation, ref string, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("debt service operation failed",
		slog.String("operation", operation),
		slog.String("ref", ref),
		slog.Any("error", err),
	)
}
