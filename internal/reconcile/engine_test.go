package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

func mov(typ domain.MovementType, amount string, status domain.MovementStatus) domain.Movement {
	return domain.Movement{
		ID:     uuid.New(),
		Folio:  domain.NewFolio("MOV"),
		Type:   typ,
		Amount: dec(amount),
		Date:   time.Now().UTC(),
		Status: status,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReconcileBalanced(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeExpense, "200", domain.MovementStatusPendingCut),
	}

	res := Reconcile(dec("1000"), movements, dec("1300"), PolicyCashOnly)

	assert.True(t, res.CalculatedBalance.Equal(dec("1300")))
	assert.True(t, res.Variance.IsZero())
	assert.Len(t, res.Movements, 2)
	assert.Equal(t, 1, res.IncomeCount)
	assert.Equal(t, 1, res.ExpenseCount)
}

func TestReconcileShortage(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeExpense, "200", domain.MovementStatusPendingCut),
	}

	res := Reconcile(dec("1000"), movements, dec("1250"), PolicyCashOnly)

	assert.True(t, res.Variance.Equal(dec("-50")), "got %s", res.Variance)
}

func TestReconcileExcludesNonPending(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeIncome, "999", domain.MovementStatusArchived),
		mov(domain.MovementTypeExpense, "999", domain.MovementStatusInProgress),
	}

	res := Reconcile(dec("0"), movements, dec("500"), PolicyCashOnly)

	assert.True(t, res.CalculatedBalance.Equal(dec("500")))
	assert.True(t, res.Variance.IsZero())
	assert.Len(t, res.Movements, 1)
}

func TestReconcileOrderIndependent(t *testing.T) {
	a := mov(domain.MovementTypeIncome, "123.45", domain.MovementStatusPendingCut)
	b := mov(domain.MovementTypeExpense, "67.89", domain.MovementStatusPendingCut)
	c := mov(domain.MovementTypeIncome, "10", domain.MovementStatusPendingCut)

	forward := Reconcile(dec("100"), []domain.Movement{a, b, c}, dec("165.56"), PolicyCashOnly)
	reversed := Reconcile(dec("100"), []domain.Movement{c, b, a}, dec("165.56"), PolicyCashOnly)

	assert.True(t, forward.CalculatedBalance.Equal(reversed.CalculatedBalance))
	assert.True(t, forward.Variance.Equal(reversed.Variance))
}

func TestReconcileIdempotent(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "300", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeExpense, "120.50", domain.MovementStatusPendingCut),
	}

	first := Reconcile(dec("50"), movements, dec("229.50"), PolicyCashOnly)
	second := Reconcile(dec("50"), movements, dec("229.50"), PolicyCashOnly)

	assert.True(t, first.CalculatedBalance.Equal(second.CalculatedBalance))
	assert.True(t, first.Variance.Equal(second.Variance))
	assert.Equal(t, len(first.Movements), len(second.Movements))
}

func TestReconcileInvestmentPolicies(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "500", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeInvestment, "300", domain.MovementStatusPendingCut),
	}

	t.Run("cash only treats investment as outflow", func(t *testing.T) {
		res := Reconcile(dec("1000"), movements, dec("1200"), PolicyCashOnly)
		assert.True(t, res.CalculatedBalance.Equal(dec("1200")), "got %s", res.CalculatedBalance)
		assert.True(t, res.Variance.IsZero())
	})

	t.Run("legacy keeps investment cash neutral", func(t *testing.T) {
		res := Reconcile(dec("1000"), movements, dec("1200"), PolicyLegacyInvestment)
		assert.True(t, res.CalculatedBalance.Equal(dec("1500")), "got %s", res.CalculatedBalance)
		assert.True(t, res.Variance.Equal(dec("-300")))
	})
}

func TestSignedTotalMatchesCalculatedDelta(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.MovementTypeIncome, "812.33", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeExpense, "99.99", domain.MovementStatusPendingCut),
		mov(domain.MovementTypeInvestment, "250", domain.MovementStatusPendingCut),
	}

	for _, policy := range []BalancePolicy{PolicyCashOnly, PolicyLegacyInvestment} {
		res := Reconcile(dec("1500"), movements, dec("0"), policy)
		delta := res.CalculatedBalance.Sub(res.OpeningBalance)
		require.True(t, res.SignedTotal().Equal(delta),
			"policy %s: signed total %s, delta %s", policy, res.SignedTotal(), delta)
	}
}

func TestVariancePercent(t *testing.T) {
	res := Reconcile(dec("0"),
		[]domain.Movement{mov(domain.MovementTypeIncome, "200", domain.MovementStatusPendingCut)},
		dec("190"), PolicyCashOnly)

	assert.True(t, res.VariancePercent().Equal(dec("-5")), "got %s", res.VariancePercent())
}

func TestVariancePercentFloorsSmallBase(t *testing.T) {
	res := Reconcile(dec("0"), nil, dec("0.50"), PolicyCashOnly)

	// base is floored to 1, so 0.50 variance reads as 50 percent
	assert.True(t, res.VariancePercent().Equal(dec("50")), "got %s", res.VariancePercent())
}
