package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusActive        InvestmentStatus = "active"
	InvestmentStatusPendingReturn InvestmentStatus = "pending_return"
	InvestmentStatusCompleted     InvestmentStatus = "completed"
)

// Investment tracks capital lent out of the box as a parallel sub-ledger.
// Creation posts an expense movement into the main ledger; liquidation posts
// the returned amount back as income.
type Investment struct {
	ID                 uuid.UUID
	Folio              string
	Principal          decimal.Decimal
	Description        string
	Counterparty       string
	StartDate          time.Time
	PromisedReturnDate *time.Time
	Status             InvestmentStatus
	ReturnedAmount     *decimal.Decimal
	Gain               *decimal.Decimal
	ReturnDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Overdue reports whether the promised return date has passed without
// liquidation. Derived annotation, never a state transition.
func (i *Investment) Overdue(today time.Time) bool {
	if i.Status == InvestmentStatusCompleted || i.PromisedReturnDate == nil {
		return false
	}
	return i.PromisedReturnDate.Before(today)
}
