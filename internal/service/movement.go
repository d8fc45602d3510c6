package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/logging"
)

// MovementService validates and records ledger entries. Invalid movements are
// rejected here and never reach reconciliation.
type MovementService struct {
	movements movementRepository
	db        *sql.DB
}

func NewMovementService(movements movementRepository, db *sql.DB) *MovementService {
	return &MovementService{movements: movements, db: db}
}

type CreateMovementRequest struct {
	Type          domain.MovementType
	Category      string
	Amount        decimal.Decimal
	Description   string
	Responsible   string
	Authorization string
	Date          time.Time
}

func (r CreateMovementRequest) validate() error {
	if !r.Type.IsValid() {
		return domain.ErrInvalidMovementType
	}
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if strings.TrimSpace(r.Description) == "" || strings.TrimSpace(r.Responsible) == "" {
		return domain.ErrInvalidRequest
	}
	return nil
}

func (s *MovementService) Create(ctx context.Context, req CreateMovementRequest) (*domain.Movement, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	m := newMovement(req)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Create: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.movements.Create(ctx, tx, m); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Create: commit: %w", err)
	}

	logging.FromContext(ctx).Info("movement recorded",
		"movement_id", m.ID, "folio", m.Folio, "type", m.Type, "amount", m.Amount)

	return m, nil
}

// Correct posts a reversing movement for the original and re-enters the
// corrected values as a fresh entry. The original row is never mutated, so
// the audit trail keeps all three. Rows archived under a sealed cut are out
// of reach; a post-cut discrepancy is recorded as a new movement in the
// current cycle instead.
func (s *MovementService) Correct(ctx context.Context, id uuid.UUID, req CreateMovementRequest) (*domain.Movement, *domain.Movement, error) {
	if err := req.validate(); err != nil {
		return nil, nil, fmt.Errorf("Correct: %w", err)
	}

	orig, err := s.movements.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("Correct: %w", err)
	}
	if orig.Status == domain.MovementStatusArchived {
		return nil, nil, fmt.Errorf("Correct: %w", domain.ErrMovementArchived)
	}

	reversal := &domain.Movement{
		ID:            uuid.New(),
		Folio:         domain.NewFolio("REV"),
		Type:          opposite(orig.Type),
		Category:      "correction",
		Amount:        orig.Amount,
		Description:   fmt.Sprintf("reversal of %s: %s", orig.Folio, orig.Description),
		Responsible:   req.Responsible,
		Authorization: req.Authorization,
		Date:          req.Date,
		Status:        domain.MovementStatusPendingCut,
		CreatedAt:     time.Now().UTC(),
	}
	replacement := newMovement(req)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("Correct: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.movements.Create(ctx, tx, reversal); err != nil {
		return nil, nil, fmt.Errorf("Correct: reversal: %w", err)
	}
	if err := s.movements.Create(ctx, tx, replacement); err != nil {
		return nil, nil, fmt.Errorf("Correct: replacement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("Correct: commit: %w", err)
	}

	logging.FromContext(ctx).Info("movement corrected",
		"original", orig.Folio, "reversal", reversal.Folio, "replacement", replacement.Folio)

	return reversal, replacement, nil
}

func (s *MovementService) List(ctx context.Context, status domain.MovementStatus) ([]domain.Movement, error) {
	if status != "" {
		switch status {
		case domain.MovementStatusPendingCut, domain.MovementStatusInProgress, domain.MovementStatusArchived:
		default:
			return nil, fmt.Errorf("List: %w", domain.ErrInvalidRequest)
		}
	}
	movements, err := s.movements.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return movements, nil
}

// Delete removes a movement outright. Archived rows are protected: they belong
// to a sealed cut and its summary totals must keep adding up.
func (s *MovementService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.movements.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if m.Status == domain.MovementStatusArchived {
		return fmt.Errorf("Delete: %w", domain.ErrMovementArchived)
	}
	if err := s.movements.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	logging.FromContext(ctx).Info("movement deleted", "movement_id", id, "folio", m.Folio)
	return nil
}

func newMovement(req CreateMovementRequest) *domain.Movement {
	status := domain.MovementStatusPendingCut
	if req.Type == domain.MovementTypeInvestment {
		status = domain.MovementStatusInProgress
	}
	return &domain.Movement{
		ID:            uuid.New(),
		Folio:         domain.NewFolio("MOV"),
		Type:          req.Type,
		Category:      req.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		Responsible:   req.Responsible,
		Authorization: req.Authorization,
		Date:          req.Date,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}

func opposite(t domain.MovementType) domain.MovementType {
	if t == domain.MovementTypeIncome {
		return domain.MovementTypeExpense
	}
	// Legacy investment rows reverse as income, the cash comes back in.
	return domain.MovementTypeIncome
}
