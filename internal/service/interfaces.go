package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

type movementRepository interface {
	Create(ctx context.Context, tx *sql.Tx, m *domain.Movement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error)
	ListActive(ctx context.Context) ([]domain.Movement, error)
	List(ctx context.Context, status domain.MovementStatus) ([]domain.Movement, error)
	ListByCut(ctx context.Context, cutID uuid.UUID) ([]domain.Movement, error)
	ArchiveBatch(ctx context.Context, tx *sql.Tx, ids []uuid.UUID, cutID uuid.UUID) (int64, error)
	CountPending(ctx context.Context, tx *sql.Tx) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cutRepository interface {
	Create(ctx context.Context, tx *sql.Tx, c *domain.CorteSummary) error
	GetLast(ctx context.Context) (*domain.CorteSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CorteSummary, error)
	List(ctx context.Context, limit, offset int) ([]domain.CorteSummary, int, error)
}

type investmentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error
	List(ctx context.Context) ([]domain.Investment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Investment, error)
	Update(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error
}
