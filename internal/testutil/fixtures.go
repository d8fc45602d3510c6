package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

// SeedMovement inserts a movement row directly, bypassing the service layer.
func SeedMovement(t *testing.T, db *sql.DB, typ domain.MovementType, amount string, status domain.MovementStatus) *domain.Movement {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}

	m := &domain.Movement{
		ID:            uuid.New(),
		Folio:         domain.NewFolio("MOV"),
		Type:          typ,
		Amount:        amt,
		Description:   "seeded " + string(typ),
		Responsible:   "tester",
		Authorization: "tester",
		Date:          time.Now().UTC().Truncate(24 * time.Hour),
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO movements (id, folio, type, category, amount, description,
			responsible, authorized_by, date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Folio, m.Type, m.Category, m.Amount, m.Description,
		m.Responsible, m.Authorization, m.Date, m.Status, m.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed movement: %v", err)
	}
	return m
}

func GetMovementStatus(t *testing.T, db *sql.DB, id uuid.UUID) (domain.MovementStatus, *uuid.UUID) {
	t.Helper()

	var status domain.MovementStatus
	var cutID uuid.NullUUID
	err := db.QueryRow(`SELECT status, cut_id FROM movements WHERE id = $1`, id).Scan(&status, &cutID)
	if err != nil {
		t.Fatalf("get movement status: %v", err)
	}
	if cutID.Valid {
		return status, &cutID.UUID
	}
	return status, nil
}

func CountMovements(t *testing.T, db *sql.DB, status domain.MovementStatus) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM movements WHERE status = $1`, status).Scan(&n); err != nil {
		t.Fatalf("count movements: %v", err)
	}
	return n
}

func CountCuts(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cuts`).Scan(&n); err != nil {
		t.Fatalf("count cuts: %v", err)
	}
	return n
}

// Count builds a VaultCount whose total is exactly the given bill breakdown.
func Count(bills map[string]int) domain.VaultCount {
	return domain.VaultCount{Bills: bills, Coins: map[string]int{}}
}
