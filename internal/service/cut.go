package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/logging"
	"github.com/josue04mendez04-max/YuJoFintech/internal/reconcile"
)

// CutService orchestrates the corte de caja: reconcile the current cycle,
// evaluate the variance, pass the confirmation gate, and seal the batch in one
// transaction. At most one cut runs at a time per process; the transaction
// additionally re-verifies active-set membership so a cut racing an insert
// fails whole instead of archiving a stale snapshot.
type CutService struct {
	movements movementRepository
	cuts      cutRepository
	db        *sql.DB
	policy    reconcile.BalancePolicy
	seed      decimal.Decimal

	mu sync.Mutex
}

func NewCutService(movements movementRepository, cuts cutRepository, db *sql.DB, policy reconcile.BalancePolicy, seedOpening decimal.Decimal) *CutService {
	return &CutService{
		movements: movements,
		cuts:      cuts,
		db:        db,
		policy:    policy,
		seed:      seedOpening,
	}
}

// OpeningBalance is the carry-forward from the last cut: the physical total
// just counted becomes the book's truth for the next cycle. Before any cut
// exists it falls back to the configured seed.
func (s *CutService) OpeningBalance(ctx context.Context) (decimal.Decimal, error) {
	last, err := s.cuts.GetLast(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return s.seed, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("OpeningBalance: %w", err)
	}
	return last.PhysicalTotal, nil
}

// Preview runs the reconciliation and adjustment policy without touching any
// state, so the operator sees the variance before committing to a cut.
func (s *CutService) Preview(ctx context.Context, count domain.VaultCount) (reconcile.Result, reconcile.Decision, error) {
	opening, err := s.OpeningBalance(ctx)
	if err != nil {
		return reconcile.Result{}, reconcile.Decision{}, fmt.Errorf("Preview: %w", err)
	}

	active, err := s.movements.ListActive(ctx)
	if err != nil {
		return reconcile.Result{}, reconcile.Decision{}, fmt.Errorf("Preview: %w", err)
	}

	res := reconcile.Reconcile(opening, active, count.Normalize().Total(), s.policy)
	return res, reconcile.Evaluate(res.Variance), nil
}

// PerformCut closes the current cycle. Either every step lands (summary
// persisted, every included movement archived under the new cut id) or
// nothing does. An operator decline aborts cleanly with ErrOperatorAbort; a
// concurrent change to the active set rolls back with
// ErrConcurrentModification and the caller retries from scratch.
func (s *CutService) PerformCut(ctx context.Context, count domain.VaultCount, gate ConfirmationGate) (*domain.CorteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logging.FromContext(ctx)

	opening, err := s.OpeningBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("PerformCut: %w", err)
	}

	active, err := s.movements.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("PerformCut: %w", err)
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("PerformCut: %w", domain.ErrEmptyCut)
	}

	res := reconcile.Reconcile(opening, active, count.Normalize().Total(), s.policy)
	verdict := reconcile.Evaluate(res.Variance)

	decision, err := gate.Confirm(ctx, Confirmation{
		Balanced:  verdict.Balanced,
		Direction: verdict.Direction,
		Amount:    verdict.Amount,
		Message:   verdict.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("PerformCut: confirmation: %w", err)
	}
	if !decision.Proceed {
		log.Info("cut aborted by operator", "variance", res.Variance)
		return nil, fmt.Errorf("PerformCut: %w", domain.ErrOperatorAbort)
	}
	if !verdict.Balanced && strings.TrimSpace(decision.Cause) == "" {
		return nil, fmt.Errorf("PerformCut: %w", domain.ErrCauseRequired)
	}

	now := time.Now().UTC()
	summary := &domain.CorteSummary{
		ID:                uuid.New(),
		Code:              domain.NewCutCode(now),
		Date:              now,
		Policy:            string(s.policy),
		OpeningBalance:    res.OpeningBalance,
		IncomeTotal:       res.IncomeTotal,
		ExpenseTotal:      res.ExpenseTotal,
		InvestmentTotal:   res.InvestmentTotal,
		CalculatedBalance: res.CalculatedBalance,
		PhysicalTotal:     res.PhysicalTotal,
		Variance:          res.Variance,
		Adjustment:        verdict.Entry(decision.Cause),
		MovementCount:     len(res.Movements),
		CreatedAt:         now,
	}

	if err := s.seal(ctx, summary, res.Movements); err != nil {
		return nil, fmt.Errorf("PerformCut: %w", err)
	}

	// Reflect the archival on the returned snapshot.
	summary.Movements = make([]domain.Movement, len(res.Movements))
	for i, m := range res.Movements {
		m.Status = domain.MovementStatusArchived
		cutID := summary.ID
		m.CutID = &cutID
		summary.Movements[i] = m
	}

	log.Info("cut sealed",
		"cut_id", summary.ID,
		"code", summary.Code,
		"movements", summary.MovementCount,
		"calculated_balance", summary.CalculatedBalance,
		"physical_total", summary.PhysicalTotal,
		"variance", summary.Variance,
	)

	return summary, nil
}

// seal writes the summary and archives the batch in one transaction. The
// archival row count must equal the snapshot size and no pending row may
// remain afterwards; any mismatch means the active set moved under us.
func (s *CutService) seal(ctx context.Context, summary *domain.CorteSummary, included []domain.Movement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seal: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.cuts.Create(ctx, tx, summary); err != nil {
		return fmt.Errorf("seal: create cut: %w", err)
	}

	ids := make([]uuid.UUID, len(included))
	for i, m := range included {
		ids[i] = m.ID
	}

	archived, err := s.movements.ArchiveBatch(ctx, tx, ids, summary.ID)
	if err != nil {
		return fmt.Errorf("seal: %w", err)
	}
	if archived != int64(len(ids)) {
		return fmt.Errorf("seal: archived %d of %d: %w", archived, len(ids), domain.ErrConcurrentModification)
	}

	pending, err := s.movements.CountPending(ctx, tx)
	if err != nil {
		return fmt.Errorf("seal: %w", err)
	}
	if pending != 0 {
		return fmt.Errorf("seal: %d movements entered during cut: %w", pending, domain.ErrConcurrentModification)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seal: commit: %w", err)
	}
	return nil
}

// GetCut loads a sealed cut with its archived movements. Historical movements
// may have been deleted externally, so the loaded list can be shorter than
// MovementCount; the summary totals remain the audit truth.
func (s *CutService) GetCut(ctx context.Context, id uuid.UUID) (*domain.CorteSummary, error) {
	summary, err := s.cuts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetCut: %w", err)
	}

	movements, err := s.movements.ListByCut(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetCut: %w", err)
	}
	summary.Movements = movements
	return summary, nil
}

func (s *CutService) ListCuts(ctx context.Context, limit, offset int) ([]domain.CorteSummary, int, error) {
	cuts, total, err := s.cuts.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListCuts: %w", err)
	}
	return cuts, total, nil
}
