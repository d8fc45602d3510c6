package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

// Confirmation describes the pending cut to whoever answers the gate: the
// variance verdict plus a human-readable justification for the prompt.
type Confirmation struct {
	Balanced  bool
	Direction domain.AdjustmentDirection
	Amount    decimal.Decimal
	Message   string
}

// Decision is the operator's answer. Proceed=false is a valid outcome, not an
// error; Cause carries the adjustment justification when one is required.
type Decision struct {
	Proceed bool
	Cause   string
}

// ConfirmationGate is the operator confirmation channel. The cut blocks on it
// and treats "no" as a clean abort with zero side effects. Implementations
// live at the edges: the HTTP layer answers from request fields, tests use
// GateFunc.
type ConfirmationGate interface {
	Confirm(ctx context.Context, c Confirmation) (Decision, error)
}

type GateFunc func(ctx context.Context, c Confirmation) (Decision, error)

func (f GateFunc) Confirm(ctx context.Context, c Confirmation) (Decision, error) {
	return f(ctx, c)
}

// StaticGate answers with a pre-recorded decision. The HTTP cut endpoint
// builds one from the request's confirmed flag and cause.
type StaticGate struct {
	Proceed bool
	Cause   string
}

func (g StaticGate) Confirm(ctx context.Context, c Confirmation) (Decision, error) {
	return Decision{Proceed: g.Proceed, Cause: g.Cause}, nil
}
