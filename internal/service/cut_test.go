package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/reconcile"
	"github.com/josue04mendez04-max/YuJoFintech/internal/repository"
	"github.com/josue04mendez04-max/YuJoFintech/internal/service"
	"github.com/josue04mendez04-max/YuJoFintech/internal/testutil"
)

func setupCutService(t *testing.T, db *sql.DB, seedOpening string) *service.CutService {
	t.Helper()
	return service.NewCutService(
		repository.NewMovementRepository(db),
		repository.NewCutRepository(db),
		db,
		reconcile.PolicyCashOnly,
		decimal.RequireFromString(seedOpening),
	)
}

func approveGate() service.ConfirmationGate {
	return service.StaticGate{Proceed: true}
}

func TestPerformCut_Balanced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "1000")
	ctx := context.Background()

	income := testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)
	expense := testutil.SeedMovement(t, db, domain.MovementTypeExpense, "200", domain.MovementStatusPendingCut)

	count := testutil.Count(map[string]int{"500": 2, "100": 3}) // 1300

	summary, err := svc.PerformCut(ctx, count, approveGate())
	require.NoError(t, err)

	assert.True(t, summary.CalculatedBalance.Equal(decimal.RequireFromString("1300")))
	assert.True(t, summary.Variance.IsZero())
	assert.Nil(t, summary.Adjustment)
	assert.Equal(t, 2, summary.MovementCount)
	assert.NotEmpty(t, summary.Code)

	for _, m := range []*domain.Movement{income, expense} {
		status, cutID := testutil.GetMovementStatus(t, db, m.ID)
		assert.Equal(t, domain.MovementStatusArchived, status)
		require.NotNil(t, cutID)
		assert.Equal(t, summary.ID, *cutID)
	}

	assert.Equal(t, 0, testutil.CountMovements(t, db, domain.MovementStatusPendingCut))
	assert.Equal(t, 1, testutil.CountCuts(t, db))
}

func TestPerformCut_CarryForwardOpeningBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "1000")
	ctx := context.Background()

	opening, err := svc.OpeningBalance(ctx)
	require.NoError(t, err)
	assert.True(t, opening.Equal(decimal.RequireFromString("1000")), "seed before first cut")

	testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)
	_, err = svc.PerformCut(ctx, testutil.Count(map[string]int{"500": 3}), approveGate()) // 1500
	require.NoError(t, err)

	opening, err = svc.OpeningBalance(ctx)
	require.NoError(t, err)
	assert.True(t, opening.Equal(decimal.RequireFromString("1500")),
		"next cycle opens on the counted physical total, got %s", opening)
}

func TestPerformCut_UnbalancedRequiresCause(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	m := testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)
	short := testutil.Count(map[string]int{"100": 4}) // 400, shortage of 100

	_, err := svc.PerformCut(ctx, short, service.StaticGate{Proceed: true})
	require.ErrorIs(t, err, domain.ErrCauseRequired)

	status, _ := testutil.GetMovementStatus(t, db, m.ID)
	assert.Equal(t, domain.MovementStatusPendingCut, status)
	assert.Equal(t, 0, testutil.CountCuts(t, db))
}

func TestPerformCut_UnbalancedWithCause(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)

	summary, err := svc.PerformCut(ctx,
		testutil.Count(map[string]int{"100": 4}),
		service.StaticGate{Proceed: true, Cause: "drawer miscount"})
	require.NoError(t, err)

	require.NotNil(t, summary.Adjustment)
	assert.Equal(t, domain.AdjustmentShortage, summary.Adjustment.Direction)
	assert.True(t, summary.Adjustment.Amount.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, "drawer miscount", summary.Adjustment.Cause)
}

func TestPerformCut_OperatorAbort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	m := testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)

	_, err := svc.PerformCut(ctx, testutil.Count(map[string]int{"100": 4}), service.StaticGate{Proceed: false})
	require.ErrorIs(t, err, domain.ErrOperatorAbort)

	status, cutID := testutil.GetMovementStatus(t, db, m.ID)
	assert.Equal(t, domain.MovementStatusPendingCut, status)
	assert.Nil(t, cutID)
	assert.Equal(t, 0, testutil.CountCuts(t, db))
}

func TestPerformCut_EmptyCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")

	_, err := svc.PerformCut(context.Background(), testutil.Count(nil), approveGate())
	require.ErrorIs(t, err, domain.ErrEmptyCut)
	assert.Equal(t, 0, testutil.CountCuts(t, db))
}

func TestPerformCut_ConcurrentInsertRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	m := testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)

	// A movement lands while the operator is answering the prompt. The seal
	// must notice the active set changed and roll everything back.
	racer := service.GateFunc(func(ctx context.Context, c service.Confirmation) (service.Decision, error) {
		testutil.SeedMovement(t, db, domain.MovementTypeExpense, "50", domain.MovementStatusPendingCut)
		return service.Decision{Proceed: true}, nil
	})

	_, err := svc.PerformCut(ctx, testutil.Count(map[string]int{"500": 1}), racer)
	require.ErrorIs(t, err, domain.ErrConcurrentModification)

	status, _ := testutil.GetMovementStatus(t, db, m.ID)
	assert.Equal(t, domain.MovementStatusPendingCut, status)
	assert.Equal(t, 0, testutil.CountCuts(t, db))
	assert.Equal(t, 2, testutil.CountMovements(t, db, domain.MovementStatusPendingCut))
}

func TestPreview_NoSideEffects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	m := testutil.SeedMovement(t, db, domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut)

	res, verdict, err := svc.Preview(ctx, testutil.Count(map[string]int{"100": 4}))
	require.NoError(t, err)

	assert.True(t, res.Variance.Equal(decimal.RequireFromString("-100")))
	assert.False(t, verdict.Balanced)
	assert.Equal(t, domain.AdjustmentShortage, verdict.Direction)

	status, _ := testutil.GetMovementStatus(t, db, m.ID)
	assert.Equal(t, domain.MovementStatusPendingCut, status)
	assert.Equal(t, 0, testutil.CountCuts(t, db))
}

func TestGetCut_LoadsArchivedMovements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	testutil.SeedMovement(t, db, domain.MovementTypeIncome, "250", domain.MovementStatusPendingCut)
	testutil.SeedMovement(t, db, domain.MovementTypeIncome, "250", domain.MovementStatusPendingCut)

	sealed, err := svc.PerformCut(ctx, testutil.Count(map[string]int{"500": 1}), approveGate())
	require.NoError(t, err)

	loaded, err := svc.GetCut(ctx, sealed.ID)
	require.NoError(t, err)

	assert.Equal(t, sealed.Code, loaded.Code)
	assert.Len(t, loaded.Movements, 2)
	for _, m := range loaded.Movements {
		assert.Equal(t, domain.MovementStatusArchived, m.Status)
	}
}

func TestListCuts_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupCutService(t, db, "0")
	ctx := context.Background()

	// each cycle adds 100 on top of the carried-forward physical total
	for i := 1; i <= 3; i++ {
		testutil.SeedMovement(t, db, domain.MovementTypeIncome, "100", domain.MovementStatusPendingCut)
		_, err := svc.PerformCut(ctx, testutil.Count(map[string]int{"100": i}), approveGate())
		require.NoError(t, err)
	}

	cuts, total, err := svc.ListCuts(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, cuts, 2)
}
