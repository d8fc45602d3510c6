package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/reconcile"
	"github.com/josue04mendez04-max/YuJoFintech/internal/service"
)

type cutService interface {
	Preview(ctx context.Context, count domain.VaultCount) (reconcile.Result, reconcile.Decision, error)
	PerformCut(ctx context.Context, count domain.VaultCount, gate service.ConfirmationGate) (*domain.CorteSummary, error)
	GetCut(ctx context.Context, id uuid.UUID) (*domain.CorteSummary, error)
	ListCuts(ctx context.Context, limit, offset int) ([]domain.CorteSummary, int, error)
}

type CutHandler struct {
	cuts cutService
}

func NewCutHandler(cuts cutService) *CutHandler {
	return &CutHandler{cuts: cuts}
}

type previewRequest struct {
	Bills map[string]int `json:"bills"`
	Coins map[string]int `json:"coins"`
}

type performCutRequest struct {
	Bills     map[string]int `json:"bills"`
	Coins     map[string]int `json:"coins"`
	Confirmed bool           `json:"confirmed"`
	Cause     string         `json:"cause"`
}

type reconciliationDTO struct {
	Policy            string          `json:"policy"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	IncomeTotal       decimal.Decimal `json:"income_total"`
	IncomeCount       int             `json:"income_count"`
	ExpenseTotal      decimal.Decimal `json:"expense_total"`
	ExpenseCount      int             `json:"expense_count"`
	InvestmentTotal   decimal.Decimal `json:"investment_total"`
	InvestmentCount   int             `json:"investment_count"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	PhysicalTotal     decimal.Decimal `json:"physical_total"`
	Variance          decimal.Decimal `json:"variance"`
	VariancePercent   decimal.Decimal `json:"variance_percent"`
	MovementCount     int             `json:"movement_count"`
	Balanced          bool            `json:"balanced"`
	AdjustmentNeeded  bool            `json:"adjustment_needed"`
	Message           string          `json:"message"`
}

func toReconciliationDTO(res reconcile.Result, verdict reconcile.Decision) reconciliationDTO {
	return reconciliationDTO{
		Policy:            string(res.Policy),
		OpeningBalance:    res.OpeningBalance,
		IncomeTotal:       res.IncomeTotal,
		IncomeCount:       res.IncomeCount,
		ExpenseTotal:      res.ExpenseTotal,
		ExpenseCount:      res.ExpenseCount,
		InvestmentTotal:   res.InvestmentTotal,
		InvestmentCount:   res.InvestmentCount,
		CalculatedBalance: res.CalculatedBalance,
		PhysicalTotal:     res.PhysicalTotal,
		Variance:          res.Variance,
		VariancePercent:   res.VariancePercent(),
		MovementCount:     len(res.Movements),
		Balanced:          verdict.Balanced,
		AdjustmentNeeded:  !verdict.Balanced,
		Message:           verdict.Message,
	}
}

type adjustmentDTO struct {
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Cause     string          `json:"cause"`
}

type cutDTO struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Date              time.Time       `json:"date"`
	Policy            string          `json:"policy"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	IncomeTotal       decimal.Decimal `json:"income_total"`
	ExpenseTotal      decimal.Decimal `json:"expense_total"`
	InvestmentTotal   decimal.Decimal `json:"investment_total"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	PhysicalTotal     decimal.Decimal `json:"physical_total"`
	Variance          decimal.Decimal `json:"variance"`
	Adjustment        *adjustmentDTO  `json:"adjustment,omitempty"`
	MovementCount     int             `json:"movement_count"`
	Movements         []movementDTO   `json:"movements,omitempty"`
}

func toCutDTO(c *domain.CorteSummary) cutDTO {
	dto := cutDTO{
		ID:                c.ID,
		Code:              c.Code,
		Date:              c.Date,
		Policy:            c.Policy,
		OpeningBalance:    c.OpeningBalance,
		IncomeTotal:       c.IncomeTotal,
		ExpenseTotal:      c.ExpenseTotal,
		InvestmentTotal:   c.InvestmentTotal,
		CalculatedBalance: c.CalculatedBalance,
		PhysicalTotal:     c.PhysicalTotal,
		Variance:          c.Variance,
		MovementCount:     c.MovementCount,
	}
	if c.Adjustment != nil {
		dto.Adjustment = &adjustmentDTO{
			Direction: string(c.Adjustment.Direction),
			Amount:    c.Adjustment.Amount,
			Cause:     c.Adjustment.Cause,
		}
	}
	if len(c.Movements) > 0 {
		dto.Movements = toMovementDTOs(c.Movements)
	}
	return dto
}

// Preview runs the reconciliation without side effects, so the operator sees
// the variance and whether an adjustment cause will be required.
func (h *CutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	count := domain.VaultCount{Bills: req.Bills, Coins: req.Coins}
	if err := count.Validate(); err != nil {
		RespondDomainError(w, err)
		return
	}

	res, verdict, err := h.cuts.Preview(r.Context(), count)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toReconciliationDTO(res, verdict))
}

// Perform seals the cut. The request's confirmed flag and cause answer the
// confirmation gate; a decline is reported as an aborted outcome, not an
// error.
func (h *CutHandler) Perform(w http.ResponseWriter, r *http.Request) {
	var req performCutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	count := domain.VaultCount{Bills: req.Bills, Coins: req.Coins}
	if err := count.Validate(); err != nil {
		RespondDomainError(w, err)
		return
	}

	gate := service.StaticGate{Proceed: req.Confirmed, Cause: req.Cause}
	summary, err := h.cuts.PerformCut(r.Context(), count, gate)
	if errors.Is(err, domain.ErrOperatorAbort) {
		RespondSuccess(w, http.StatusOK, map[string]string{"outcome": "aborted"})
		return
	}
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toCutDTO(summary))
}

func (h *CutHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	offset := parseIntParam(r, "offset", 0)

	cuts, total, err := h.cuts.ListCuts(r.Context(), limit, offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]cutDTO, len(cuts))
	for i := range cuts {
		dtos[i] = toCutDTO(&cuts[i])
	}
	RespondSuccess(w, http.StatusOK, map[string]any{
		"cuts":  dtos,
		"total": total,
	})
}

func (h *CutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	summary, err := h.cuts.GetCut(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCutDTO(summary))
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
