package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdjustmentDirection string

const (
	AdjustmentSurplus  AdjustmentDirection = "surplus"
	AdjustmentShortage AdjustmentDirection = "shortage"
)

// AdjustmentEntry annotates a cut whose variance exceeded tolerance. Immutable
// once the cut is sealed.
type AdjustmentEntry struct {
	Direction AdjustmentDirection
	Amount    decimal.Decimal
	Cause     string
}

// CorteSummary is the immutable closing record of one cash cycle. It is the
// audit trail: once persisted it is never mutated or deleted.
type CorteSummary struct {
	ID                uuid.UUID
	Code              string
	Date              time.Time
	Policy            string
	OpeningBalance    decimal.Decimal
	IncomeTotal       decimal.Decimal
	ExpenseTotal      decimal.Decimal
	InvestmentTotal   decimal.Decimal
	CalculatedBalance decimal.Decimal
	PhysicalTotal     decimal.Decimal
	Variance          decimal.Decimal
	Adjustment        *AdjustmentEntry
	MovementCount     int
	Movements         []Movement
	CreatedAt         time.Time
}

// NewCutCode builds the human reference for a cut, e.g. "CORTE-20260828-4F7A2".
func NewCutCode(now time.Time) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CORTE-%s-%s", now.Format("20060102"), raw[:5])
}
