package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/repository"
	"github.com/josue04mendez04-max/YuJoFintech/internal/service"
	"github.com/josue04mendez04-max/YuJoFintech/internal/testutil"
)

func setupInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()
	return service.NewInvestmentService(
		repository.NewInvestmentRepository(db),
		repository.NewMovementRepository(db),
		db,
	)
}

func createInvestment(t *testing.T, svc *service.InvestmentService, principal string) *domain.Investment {
	t.Helper()
	inv, err := svc.Create(context.Background(), service.CreateInvestmentRequest{
		Principal:     decimal.RequireFromString(principal),
		Description:   "working capital loan",
		Counterparty:  "Taller Lopez",
		StartDate:     time.Now().UTC(),
		Responsible:   "tester",
		Authorization: "tester",
	})
	require.NoError(t, err)
	return inv
}

func TestInvestmentCreate_PostsExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	inv := createInvestment(t, svc, "1000")

	assert.Equal(t, domain.InvestmentStatusActive, inv.Status)
	assert.NotEmpty(t, inv.Folio)

	var typ, category string
	var amount decimal.Decimal
	err := db.QueryRow(
		`SELECT type, category, amount FROM movements WHERE category = 'investment'`,
	).Scan(&typ, &category, &amount)
	require.NoError(t, err)
	assert.Equal(t, string(domain.MovementTypeExpense), typ)
	assert.True(t, amount.Equal(decimal.RequireFromString("1000")))
}

func TestInvestmentCreate_InvalidPrincipal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	_, err := svc.Create(context.Background(), service.CreateInvestmentRequest{
		Principal:    decimal.Zero,
		Description:  "zero loan",
		Counterparty: "nobody",
		StartDate:    time.Now().UTC(),
		Responsible:  "tester",
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, 0, testutil.CountMovements(t, db, domain.MovementStatusPendingCut))
}

func TestLiquidate_WithGain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)
	ctx := context.Background()

	inv := createInvestment(t, svc, "1000")

	closed, inflow, err := svc.Liquidate(ctx, inv.ID, decimal.RequireFromString("1200"))
	require.NoError(t, err)

	assert.Equal(t, domain.InvestmentStatusCompleted, closed.Status)
	require.NotNil(t, closed.ReturnedAmount)
	assert.True(t, closed.ReturnedAmount.Equal(decimal.RequireFromString("1200")))
	require.NotNil(t, closed.Gain)
	assert.True(t, closed.Gain.Equal(decimal.RequireFromString("200")))
	require.NotNil(t, closed.ReturnDate)

	assert.Equal(t, domain.MovementTypeIncome, inflow.Type)
	assert.Equal(t, "investment_return", inflow.Category)
	assert.True(t, inflow.Amount.Equal(decimal.RequireFromString("1200")))

	status, _ := testutil.GetMovementStatus(t, db, inflow.ID)
	assert.Equal(t, domain.MovementStatusPendingCut, status,
		"the return enters the current cycle and is picked up by the next cut")
}

func TestLiquidate_ExactPrincipal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	inv := createInvestment(t, svc, "1000")

	closed, _, err := svc.Liquidate(context.Background(), inv.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	assert.True(t, closed.Gain.IsZero())
}

func TestLiquidate_Loss(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	inv := createInvestment(t, svc, "1000")

	closed, inflow, err := svc.Liquidate(context.Background(), inv.ID, decimal.RequireFromString("800"))
	require.NoError(t, err)
	assert.True(t, closed.Gain.Equal(decimal.RequireFromString("-200")))
	assert.True(t, inflow.Amount.Equal(decimal.RequireFromString("800")),
		"the ledger records what actually came back, not the principal")
}

func TestLiquidate_Twice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)
	ctx := context.Background()

	inv := createInvestment(t, svc, "1000")

	_, _, err := svc.Liquidate(ctx, inv.ID, decimal.RequireFromString("1100"))
	require.NoError(t, err)

	_, _, err = svc.Liquidate(ctx, inv.ID, decimal.RequireFromString("1100"))
	require.ErrorIs(t, err, domain.ErrAlreadyLiquidated)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM movements WHERE category = 'investment_return'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "no second income row after the duplicate attempt")
}

func TestLiquidate_InvalidReturnAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	inv := createInvestment(t, svc, "1000")

	_, _, err := svc.Liquidate(context.Background(), inv.ID, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidReturnAmount)
}

func TestLiquidate_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)

	_, _, err := svc.Liquidate(context.Background(), uuid.New(), decimal.RequireFromString("100"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkPendingReturn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupInvestmentService(t, db)
	ctx := context.Background()

	inv := createInvestment(t, svc, "500")

	updated, err := svc.MarkPendingReturn(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentStatusPendingReturn, updated.Status)

	_, err = svc.MarkPendingReturn(ctx, inv.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// liquidation is still allowed from pending_return
	_, _, err = svc.Liquidate(ctx, inv.ID, decimal.RequireFromString("600"))
	require.NoError(t, err)

	_, err = svc.MarkPendingReturn(ctx, inv.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyLiquidated)
}

func TestInvestmentRoundTrip_ThroughCut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	invSvc := setupInvestmentService(t, db)
	cutSvc := setupCutService(t, db, "2000")
	ctx := context.Background()

	inv := createInvestment(t, invSvc, "1000")

	// cycle 1: the loan leaves the box
	summary, err := cutSvc.PerformCut(ctx, testutil.Count(map[string]int{"500": 2}), approveGate()) // 1000
	require.NoError(t, err)
	assert.True(t, summary.ExpenseTotal.Equal(decimal.RequireFromString("1000")))
	assert.True(t, summary.Variance.IsZero())

	// cycle 2: the money comes back with a gain
	_, _, err = invSvc.Liquidate(ctx, inv.ID, decimal.RequireFromString("1200"))
	require.NoError(t, err)

	summary, err = cutSvc.PerformCut(ctx, testutil.Count(map[string]int{"200": 11}), approveGate()) // 2200
	require.NoError(t, err)
	assert.True(t, summary.IncomeTotal.Equal(decimal.RequireFromString("1200")))
	assert.True(t, summary.Variance.IsZero())
}
