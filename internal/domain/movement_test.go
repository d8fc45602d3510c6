package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMovementTypeIsValid(t *testing.T) {
	assert.True(t, MovementTypeIncome.IsValid())
	assert.True(t, MovementTypeExpense.IsValid())
	assert.True(t, MovementTypeInvestment.IsValid())
	assert.False(t, MovementType("transfer").IsValid())
	assert.False(t, MovementType("").IsValid())
}

func TestNewFolio(t *testing.T) {
	folio := NewFolio("MOV")
	assert.Regexp(t, regexp.MustCompile(`^MOV-[0-9A-F]{6}$`), folio)

	assert.NotEqual(t, NewFolio("MOV"), NewFolio("MOV"))
}

func TestNewCutCode(t *testing.T) {
	date := time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)
	code := NewCutCode(date)
	assert.Regexp(t, regexp.MustCompile(`^CORTE-20260828-[0-9A-F]{5}$`), code)
}
