// Package reconcile holds the pure cash reconciliation core: balance
// computation over the active movement set, variance against the physical
// count, and the adjustment tolerance policy. Nothing here touches storage.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

// Result is the output of one reconciliation pass. It is a deterministic pure
// function of (opening balance, movement set, physical total, policy).
type Result struct {
	Policy            BalancePolicy
	OpeningBalance    decimal.Decimal
	IncomeTotal       decimal.Decimal
	ExpenseTotal      decimal.Decimal
	InvestmentTotal   decimal.Decimal
	CalculatedBalance decimal.Decimal
	PhysicalTotal     decimal.Decimal
	Variance          decimal.Decimal
	IncomeCount       int
	ExpenseCount      int
	InvestmentCount   int

	// Movements is the pending-cut subset that produced the totals, in input
	// order. Archival operates on exactly this set.
	Movements []domain.Movement
}

// Reconcile filters movements to the pending-cut cycle, totals them per type,
// and derives the calculated balance and variance against the physical count.
// Archived and in-progress rows never contribute.
func Reconcile(opening decimal.Decimal, movements []domain.Movement, physicalTotal decimal.Decimal, policy BalancePolicy) Result {
	res := Result{
		Policy:            policy,
		OpeningBalance:    opening,
		IncomeTotal:       decimal.Zero,
		ExpenseTotal:      decimal.Zero,
		InvestmentTotal:   decimal.Zero,
		CalculatedBalance: opening,
		PhysicalTotal:     physicalTotal,
	}

	for _, m := range movements {
		if m.Status != domain.MovementStatusPendingCut {
			continue
		}
		switch m.Type {
		case domain.MovementTypeIncome:
			res.IncomeTotal = res.IncomeTotal.Add(m.Amount)
			res.IncomeCount++
		case domain.MovementTypeExpense:
			res.ExpenseTotal = res.ExpenseTotal.Add(m.Amount)
			res.ExpenseCount++
		case domain.MovementTypeInvestment:
			res.InvestmentTotal = res.InvestmentTotal.Add(m.Amount)
			res.InvestmentCount++
		default:
			continue
		}
		res.Movements = append(res.Movements, m)
	}

	res.CalculatedBalance = opening.
		Add(res.IncomeTotal).
		Sub(res.ExpenseTotal).
		Add(res.InvestmentTotal.Mul(decimal.NewFromInt(int64(policy.CashEffect(domain.MovementTypeInvestment)))))

	res.Variance = physicalTotal.Sub(res.CalculatedBalance)
	return res
}

// SignedTotal is the net cash effect of the included movements under the
// result's policy. It always equals CalculatedBalance − OpeningBalance.
func (r Result) SignedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.Movements {
		effect := decimal.NewFromInt(int64(r.Policy.CashEffect(m.Type)))
		total = total.Add(m.Amount.Mul(effect))
	}
	return total
}

// VariancePercent expresses the variance relative to the calculated balance,
// for the audit report. A calculated balance below 1 is floored to 1 to keep
// the ratio meaningful near zero.
func (r Result) VariancePercent() decimal.Decimal {
	base := r.CalculatedBalance
	if base.LessThan(decimal.NewFromInt(1)) {
		base = decimal.NewFromInt(1)
	}
	return r.Variance.Div(base).Mul(decimal.NewFromInt(100))
}
