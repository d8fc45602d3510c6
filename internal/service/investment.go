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

// InvestmentService tracks capital lent out of the box. The sub-ledger stays
// consistent with the main one by construction: creating an investment posts
// the outflow as an expense movement, liquidating it posts the return as
// income, both inside the same transaction as the investment row.
type InvestmentService struct {
	investments investmentRepository
	movements   movementRepository
	db          *sql.DB
}

func NewInvestmentService(investments investmentRepository, movements movementRepository, db *sql.DB) *InvestmentService {
	return &InvestmentService{investments: investments, movements: movements, db: db}
}

type CreateInvestmentRequest struct {
	Principal          decimal.Decimal
	Description        string
	Counterparty       string
	StartDate          time.Time
	PromisedReturnDate *time.Time
	Responsible        string
	Authorization      string
}

func (s *InvestmentService) Create(ctx context.Context, req CreateInvestmentRequest) (*domain.Investment, error) {
	if !req.Principal.IsPositive() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}
	if strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Counterparty) == "" {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}

	now := time.Now().UTC()
	inv := &domain.Investment{
		ID:                 uuid.New(),
		Folio:              domain.NewFolio("INV"),
		Principal:          req.Principal,
		Description:        req.Description,
		Counterparty:       req.Counterparty,
		StartDate:          req.StartDate,
		PromisedReturnDate: req.PromisedReturnDate,
		Status:             domain.InvestmentStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	outflow := &domain.Movement{
		ID:            uuid.New(),
		Folio:         domain.NewFolio("MOV"),
		Type:          domain.MovementTypeExpense,
		Category:      "investment",
		Amount:        req.Principal,
		Description:   fmt.Sprintf("loan out %s: %s", inv.Folio, req.Description),
		Responsible:   req.Responsible,
		Authorization: req.Authorization,
		Date:          req.StartDate,
		Status:        domain.MovementStatusPendingCut,
		CreatedAt:     now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Create: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.investments.Create(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	if err := s.movements.Create(ctx, tx, outflow); err != nil {
		return nil, fmt.Errorf("Create: outflow: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Create: commit: %w", err)
	}

	logging.FromContext(ctx).Info("investment created",
		"investment_id", inv.ID, "folio", inv.Folio, "principal", inv.Principal)

	return inv, nil
}

// MarkPendingReturn flags an active investment whose counterparty has promised
// imminent repayment. Optional step, Liquidate accepts both states.
func (s *InvestmentService) MarkPendingReturn(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("MarkPendingReturn: begin tx: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.investments.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("MarkPendingReturn: %w", err)
	}
	switch inv.Status {
	case domain.InvestmentStatusCompleted:
		return nil, fmt.Errorf("MarkPendingReturn: %w", domain.ErrAlreadyLiquidated)
	case domain.InvestmentStatusPendingReturn:
		return nil, fmt.Errorf("MarkPendingReturn: %w", domain.ErrInvalidTransition)
	}

	inv.Status = domain.InvestmentStatusPendingReturn
	inv.UpdatedAt = time.Now().UTC()
	if err := s.investments.Update(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("MarkPendingReturn: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("MarkPendingReturn: commit: %w", err)
	}
	return inv, nil
}

// Liquidate closes an investment exactly once: records the returned amount and
// realized gain (negative for a loss) and posts the return into the main
// ledger as income in the current cycle. A second call finds the row already
// completed and fails without posting anything.
func (s *InvestmentService) Liquidate(ctx context.Context, id uuid.UUID, returned decimal.Decimal) (*domain.Investment, *domain.Movement, error) {
	if !returned.IsPositive() {
		return nil, nil, fmt.Errorf("Liquidate: %w", domain.ErrInvalidReturnAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("Liquidate: begin tx: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.investments.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("Liquidate: %w", err)
	}
	if inv.Status == domain.InvestmentStatusCompleted {
		return nil, nil, fmt.Errorf("Liquidate: %w", domain.ErrAlreadyLiquidated)
	}

	now := time.Now().UTC()
	gain := returned.Sub(inv.Principal)

	inv.Status = domain.InvestmentStatusCompleted
	inv.ReturnedAmount = &returned
	inv.Gain = &gain
	inv.ReturnDate = &now
	inv.UpdatedAt = now

	inflow := &domain.Movement{
		ID:            uuid.New(),
		Folio:         domain.NewFolio("RET"),
		Type:          domain.MovementTypeIncome,
		Category:      "investment_return",
		Amount:        returned,
		Description:   fmt.Sprintf("return of %s: %s (principal %s, gain %s)", inv.Folio, inv.Description, inv.Principal.StringFixed(2), gain.StringFixed(2)),
		Responsible:   "system/return",
		Authorization: inv.Counterparty,
		Date:          now,
		Status:        domain.MovementStatusPendingCut,
		CreatedAt:     now,
	}

	if err := s.investments.Update(ctx, tx, inv); err != nil {
		return nil, nil, fmt.Errorf("Liquidate: %w", err)
	}
	if err := s.movements.Create(ctx, tx, inflow); err != nil {
		return nil, nil, fmt.Errorf("Liquidate: inflow: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("Liquidate: commit: %w", err)
	}

	logging.FromContext(ctx).Info("investment liquidated",
		"investment_id", inv.ID, "folio", inv.Folio,
		"returned", returned, "gain", gain)

	return inv, inflow, nil
}

func (s *InvestmentService) List(ctx context.Context) ([]domain.Investment, error) {
	investments, err := s.investments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return investments, nil
}
