package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

// Tolerance absorbs rounding noise, not real shortages: anything under one
// cent counts as balanced.
var Tolerance = decimal.New(1, -2)

// Decision is the adjustment policy's verdict on a variance.
type Decision struct {
	Balanced  bool
	Direction domain.AdjustmentDirection
	Amount    decimal.Decimal
	Message   string
}

// Evaluate classifies a variance against the tolerance. Out-of-tolerance cuts
// require operator confirmation and a cause before they may proceed.
func Evaluate(variance decimal.Decimal) Decision {
	if variance.Abs().LessThan(Tolerance) {
		return Decision{
			Balanced: true,
			Amount:   decimal.Zero,
			Message:  "cut balanced, book and physical count agree",
		}
	}

	direction := domain.AdjustmentShortage
	if variance.IsPositive() {
		direction = domain.AdjustmentSurplus
	}
	amount := variance.Abs()

	return Decision{
		Balanced:  false,
		Direction: direction,
		Amount:    amount,
		Message:   fmt.Sprintf("%s of %s, adjustment required", direction, amount.StringFixed(2)),
	}
}

// Entry materializes the adjustment record for an unbalanced decision. Returns
// nil when balanced; the cause is the operator-supplied justification.
func (d Decision) Entry(cause string) *domain.AdjustmentEntry {
	if d.Balanced {
		return nil
	}
	return &domain.AdjustmentEntry{
		Direction: d.Direction,
		Amount:    d.Amount,
		Cause:     cause,
	}
}
