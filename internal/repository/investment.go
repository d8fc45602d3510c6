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

const investmentColumns = `id, folio, principal, description, counterparty, start_date,
	promised_return_date, status, returned_amount, gain, return_date, created_at, updated_at`

type InvestmentRepository struct {
	db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO investments (
			id, folio, principal, description, counterparty, start_date,
			promised_return_date, status, returned_amount, gain, return_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		inv.ID, inv.Folio, inv.Principal, inv.Description, inv.Counterparty,
		inv.StartDate, inv.PromisedReturnDate, inv.Status,
		nullDecimal(inv.ReturnedAmount), nullDecimal(inv.Gain), inv.ReturnDate,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) List(ctx context.Context) ([]domain.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments ORDER BY start_date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var investments []domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		investments = append(investments, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return investments, nil
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id,
	)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return inv, nil
}

// GetForUpdate locks the investment row for the duration of the transaction,
// so two concurrent liquidations serialize and the loser sees completed.
func (r *InvestmentRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Investment, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1 FOR UPDATE`, id,
	)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return inv, nil
}

func (r *InvestmentRepository) Update(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE investments SET
			status = $2, returned_amount = $3, gain = $4, return_date = $5, updated_at = $6
		WHERE id = $1`,
		inv.ID, inv.Status, nullDecimal(inv.ReturnedAmount), nullDecimal(inv.Gain),
		inv.ReturnDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func scanInvestment(s scanner) (*domain.Investment, error) {
	var inv domain.Investment
	var promised, returnDate sql.NullTime
	var returned, gain decimal.NullDecimal
	err := s.Scan(
		&inv.ID, &inv.Folio, &inv.Principal, &inv.Description, &inv.Counterparty,
		&inv.StartDate, &promised, &inv.Status, &returned, &gain, &returnDate,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promised.Valid {
		inv.PromisedReturnDate = &promised.Time
	}
	if returnDate.Valid {
		inv.ReturnDate = &returnDate.Time
	}
	if returned.Valid {
		inv.ReturnedAmount = &returned.Decimal
	}
	if gain.Valid {
		inv.Gain = &gain.Decimal
	}
	return &inv, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
