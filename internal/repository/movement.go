package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

const movementColumns = `id, folio, type, category, amount, description, responsible,
	authorized_by, date, status, cut_id, created_at`

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Create(ctx context.Context, tx *sql.Tx, m *domain.Movement) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO movements (
			id, folio, type, category, amount, description, responsible,
			authorized_by, date, status, cut_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.Folio, m.Type, m.Category, m.Amount, m.Description, m.Responsible,
		m.Authorization, m.Date, m.Status, m.CutID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *MovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = $1`, id,
	)
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return m, nil
}

// ListActive returns the pending-cut set, the movements of the current cycle.
func (r *MovementRepository) ListActive(ctx context.Context) ([]domain.Movement, error) {
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE status = $1 ORDER BY date, created_at`,
		domain.MovementStatusPendingCut,
	)
}

// List returns movements filtered by status; an empty status returns all.
func (r *MovementRepository) List(ctx context.Context, status domain.MovementStatus) ([]domain.Movement, error) {
	if status == "" {
		return r.list(ctx,
			`SELECT `+movementColumns+` FROM movements ORDER BY date DESC, created_at DESC`,
		)
	}
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE status = $1 ORDER BY date DESC, created_at DESC`,
		status,
	)
}

func (r *MovementRepository) ListByCut(ctx context.Context, cutID uuid.UUID) ([]domain.Movement, error) {
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE cut_id = $1 ORDER BY date, created_at`,
		cutID,
	)
}

// ArchiveBatch transitions the given movements to archived and stamps the cut
// identifier, guarded on pending-cut status so an already-archived row is
// never re-archived. Returns the number of rows actually transitioned; the
// caller compares it against the snapshot size to detect a concurrent change.
func (r *MovementRepository) ArchiveBatch(ctx context.Context, tx *sql.Tx, ids []uuid.UUID, cutID uuid.UUID) (int64, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE movements SET status = $1, cut_id = $2
		WHERE id = ANY($3) AND status = $4`,
		domain.MovementStatusArchived, cutID, pq.Array(strIDs), domain.MovementStatusPendingCut,
	)
	if err != nil {
		return 0, fmt.Errorf("ArchiveBatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ArchiveBatch: rows affected: %w", err)
	}
	return n, nil
}

// CountPending counts pending-cut rows inside the archival transaction. After
// a full archive it must be zero; anything else means the active set changed
// between snapshot and seal.
func (r *MovementRepository) CountPending(ctx context.Context, tx *sql.Tx) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movements WHERE status = $1`,
		domain.MovementStatusPendingCut,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountPending: %w", err)
	}
	return n, nil
}

func (r *MovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *MovementRepository) list(ctx context.Context, query string, args ...any) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}
	return movements, nil
}

func scanMovement(s scanner) (*domain.Movement, error) {
	var m domain.Movement
	var cutID uuid.NullUUID
	err := s.Scan(
		&m.ID, &m.Folio, &m.Type, &m.Category, &m.Amount, &m.Description,
		&m.Responsible, &m.Authorization, &m.Date, &m.Status, &cutID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cutID.Valid {
		m.CutID = &cutID.UUID
	}
	return &m, nil
}
