package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

const cutColumns = `id, code, date, policy, opening_balance, income_total, expense_total,
	investment_total, calculated_balance, physical_total, variance,
	adjustment_direction, adjustment_amount, adjustment_cause, movement_count, created_at`

type CutRepository struct {
	db *sql.DB
}

func NewCutRepository(db *sql.DB) *CutRepository {
	return &CutRepository{db: db}
}

// Create seals a cut record. Cuts are insert-only: there is no update or
// delete path, the row is the audit trail.
func (r *CutRepository) Create(ctx context.Context, tx *sql.Tx, c *domain.CorteSummary) error {
	var direction, cause sql.NullString
	var amount decimal.NullDecimal
	if c.Adjustment != nil {
		direction = sql.NullString{String: string(c.Adjustment.Direction), Valid: true}
		cause = sql.NullString{String: c.Adjustment.Cause, Valid: true}
		amount = decimal.NullDecimal{Decimal: c.Adjustment.Amount, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO cuts (
			id, code, date, policy, opening_balance, income_total, expense_total,
			investment_total, calculated_balance, physical_total, variance,
			adjustment_direction, adjustment_amount, adjustment_cause,
			movement_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.Code, c.Date, c.Policy, c.OpeningBalance, c.IncomeTotal, c.ExpenseTotal,
		c.InvestmentTotal, c.CalculatedBalance, c.PhysicalTotal, c.Variance,
		direction, amount, cause, c.MovementCount, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetLast returns the most recent cut, which seeds the next cycle's opening
// balance. Returns ErrNotFound before the first cut.
func (r *CutRepository) GetLast(ctx context.Context) (*domain.CorteSummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cutColumns+` FROM cuts ORDER BY date DESC, created_at DESC, id LIMIT 1`,
	)
	c, err := scanCut(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetLast: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetLast: %w", err)
	}
	return c, nil
}

func (r *CutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CorteSummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cutColumns+` FROM cuts WHERE id = $1`, id,
	)
	c, err := scanCut(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *CutRepository) List(ctx context.Context, limit, offset int) ([]domain.CorteSummary, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cuts`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cutColumns+` FROM cuts ORDER BY date DESC, created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var cuts []domain.CorteSummary
	for rows.Next() {
		c, err := scanCut(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		cuts = append(cuts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return cuts, total, nil
}

func scanCut(s scanner) (*domain.CorteSummary, error) {
	var c domain.CorteSummary
	var direction, cause sql.NullString
	var amount decimal.NullDecimal
	err := s.Scan(
		&c.ID, &c.Code, &c.Date, &c.Policy, &c.OpeningBalance, &c.IncomeTotal,
		&c.ExpenseTotal, &c.InvestmentTotal, &c.CalculatedBalance, &c.PhysicalTotal,
		&c.Variance, &direction, &amount, &cause, &c.MovementCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if direction.Valid {
		c.Adjustment = &domain.AdjustmentEntry{
			Direction: domain.AdjustmentDirection(direction.String),
			Amount:    amount.Decimal,
			Cause:     cause.String,
		}
	}
	return &c, nil
}
