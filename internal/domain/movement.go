package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeIncome  MovementType = "income"
	MovementTypeExpense MovementType = "expense"

	// MovementTypeInvestment survives only in historical data. New loans are
	// recorded as expenses and their returns as income movements.
	MovementTypeInvestment MovementType = "investment"
)

func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIncome, MovementTypeExpense, MovementTypeInvestment:
		return true
	}
	return false
}

type MovementStatus string

const (
	MovementStatusPendingCut MovementStatus = "pending_cut"
	// MovementStatusInProgress is the legacy status of old investment rows.
	MovementStatusInProgress MovementStatus = "in_progress"
	MovementStatusArchived   MovementStatus = "archived"
)

// Movement is a single dated cash event in the box ledger. Type and amount are
// immutable after creation; corrections are posted as reversing movements.
type Movement struct {
	ID            uuid.UUID
	Folio         string
	Type          MovementType
	Category      string
	Amount        decimal.Decimal
	Description   string
	Responsible   string
	Authorization string
	Date          time.Time
	Status        MovementStatus
	CutID         *uuid.UUID
	CreatedAt     time.Time
}

// NewFolio builds a short human-readable reference like "MOV-4F7A2C".
func NewFolio(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + raw[:6]
}
