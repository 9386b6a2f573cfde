package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AzamovUSA/debt-control/internal/domain"
)

// ErrDebtNotFound indicates that no debt row exists for the given id.
var ErrDebtNotFound = errors.New("debt not found")

// DebtRepository defines persistence operations for debt records.
type DebtRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Debt, error)
	FindByID(ctx context.Context, id string) (*domain.Debt, error)
	Insert(ctx context.Context, debt *domain.Debt) error
	UpdateStatus(ctx context.Context, id string, status domain.Status, paidAt *time.Time) error
}

type debtRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewDebtRepository creates a new SQL-backed debt repository.
func NewDebtRepository(db *sql.DB, log *slog.Logger) DebtRepository {
	return &debtRepository{
		db:  db,
		log: log,
	}
}

// ListByOwner returns every debt belonging to the owner, newest first.
func (r *debtRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Debt, error) {
	const query = `
		SELECT id, user_id, debtor_name, phone, amount, currency, due_date, status, note, created_at, paid_at
		FROM debts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list debts", slog.String("owner_id", ownerID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select debts by owner: %w", err)
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			if r.log != nil {
				r.log.Error("failed to scan debt row", slog.String("owner_id", ownerID), slog.Any("error", err))
			}
			return nil, fmt.Errorf("scan debt row: %w", err)
		}
		debts = append(debts, debt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debt rows: %w", err)
	}

	return debts, nil
}

// FindByID fetches a single debt record.
func (r *debtRepository) FindByID(ctx context.Context, id string) (*domain.Debt, error) {
	const query = `
		SELECT id, user_id, debtor_name, phone, amount, currency, due_date, status, note, created_at, paid_at
		FROM debts
		WHERE id = $1
	`

	debt, err := scanDebt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDebtNotFound
		}

		if r.log != nil {
			r.log.Error("failed to fetch debt", slog.String("debt_id", id), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select debt by id: %w", err)
	}

	return &debt, nil
}

// Insert persists a new debt row. The database assigns the id, the creation
// timestamp, and the unpaid default status.
func (r *debtRepository) Insert(ctx context.Context, debt *domain.Debt) error {
	const query = `
		INSERT INTO debts (user_id, debtor_name, phone, amount, currency, due_date, note)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''))
		RETURNING id, status, created_at
	`

	row := r.db.QueryRowContext(
		ctx,
		query,
		debt.OwnerID,
		debt.DebtorName,
		debt.Phone,
		debt.Amount,
		debt.Currency,
		debt.DueDate,
		debt.Note,
	)

	if err := row.Scan(&debt.ID, &debt.Status, &debt.CreatedAt); err != nil {
		if r.log != nil {
			r.log.Error("failed to insert debt", slog.String("owner_id", debt.OwnerID), slog.Any("error", err))
		}
		return fmt.Errorf("insert debt: %w", err)
	}

	return nil
}

// UpdateStatus sets the status and paid_at columns of a debt row.
func (r *debtRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, paidAt *time.Time) error {
	const query = `
		UPDATE debts
		SET status = $2, paid_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, paidAt)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to update debt status", slog.String("debt_id", id), slog.Any("error", err))
		}
		return fmt.Errorf("update debt status: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrDebtNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(row rowScanner) (domain.Debt, error) {
	var (
		debt   domain.Debt
		phone  sql.NullString
		note   sql.NullString
		paidAt sql.NullTime
	)

	if err := row.Scan(
		&debt.ID,
		&debt.OwnerID,
		&debt.DebtorName,
		&phone,
		&debt.Amount,
		&debt.Currency,
		&debt.DueDate,
		&debt.Status,
		&note,
		&debt.CreatedAt,
		&paidAt,
	); err != nil {
		return domain.Debt{}, err
	}

	debt.Phone = phone.String
	debt.Note = note.String
	if paidAt.Valid {
		ts := paidAt.Time
		debt.PaidAt = &ts
	}

	return debt, nil
}
