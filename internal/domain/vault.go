package domain

import "github.com/shopspring/decimal"

// VaultCount is the operator-entered denomination tally for a physical count.
// Keys are denomination values ("500", "0.5"), values are piece counts.
type VaultCount struct {
	Bills map[string]int
	Coins map[string]int
}

// Total returns the weighted sum over both maps. Missing denominations count
// as zero. Negative counts never survive Normalize, but the guard here keeps
// the sum correct even for a count that skipped it.
func (v VaultCount) Total() decimal.Decimal {
	total := decimal.Zero
	total = total.Add(sumDenominations(v.Bills))
	total = total.Add(sumDenominations(v.Coins))
	return total
}

// Normalize clamps negative counts to zero. Called at the mutation boundary
// before a count enters reconciliation.
func (v VaultCount) Normalize() VaultCount {
	return VaultCount{
		Bills: clampCounts(v.Bills),
		Coins: clampCounts(v.Coins),
	}
}

// Validate reports the first denomination key that is not a valid decimal
// number.
func (v VaultCount) Validate() error {
	for denom := range v.Bills {
		if _, err := decimal.NewFromString(denom); err != nil {
			return ErrInvalidDenomination
		}
	}
	for denom := range v.Coins {
		if _, err := decimal.NewFromString(denom); err != nil {
			return ErrInvalidDenomination
		}
	}
	return nil
}

func sumDenominations(counts map[string]int) decimal.Decimal {
	total := decimal.Zero
	for denom, n := range counts {
		if n <= 0 {
			continue
		}
		value, err := decimal.NewFromString(denom)
		if err != nil {
			continue
		}
		total = total.Add(value.Mul(decimal.NewFromInt(int64(n))))
	}
	return total
}

func clampCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for denom, n := range counts {
		if n < 0 {
			n = 0
		}
		out[denom] = n
	}
	return out
}
