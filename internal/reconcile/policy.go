package reconcile

import "github.com/josue04mendez04-max/YuJoFintech/internal/domain"

// BalancePolicy selects which movement types affect cash and with what sign.
// The system's history carries two competing formulas, so the choice is
// configuration, not code.
type BalancePolicy string

const (
	// PolicyCashOnly is the default: calculated = opening + income − expense,
	// with legacy investment rows treated as expenses because that cash left
	// the box. Returns re-enter as income movements.
	PolicyCashOnly BalancePolicy = "cash_only"

	// PolicyLegacyInvestment reproduces the old sheet-side formula that kept
	// investments off the cash balance entirely.
	PolicyLegacyInvestment BalancePolicy = "legacy_investment"
)

func (p BalancePolicy) IsValid() bool {
	return p == PolicyCashOnly || p == PolicyLegacyInvestment
}

// CashEffect returns the signed multiplier the given movement type applies to
// the calculated balance: +1 inflow, -1 outflow, 0 cash-neutral.
func (p BalancePolicy) CashEffect(t domain.MovementType) int {
	switch t {
	case domain.MovementTypeIncome:
		return 1
	case domain.MovementTypeExpense:
		return -1
	case domain.MovementTypeInvestment:
		if p == PolicyLegacyInvestment {
			return 0
		}
		return -1
	default:
		return 0
	}
}
