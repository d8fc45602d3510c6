package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
	"github.com/josue04mendez04-max/YuJoFintech/internal/service"
)

type investmentService interface {
	Create(ctx context.Context, req service.CreateInvestmentRequest) (*domain.Investment, error)
	List(ctx context.Context) ([]domain.Investment, error)
	MarkPendingReturn(ctx context.Context, id uuid.UUID) (*domain.Investment, error)
	Liquidate(ctx context.Context, id uuid.UUID, returned decimal.Decimal) (*domain.Investment, *domain.Movement, error)
}

type InvestmentHandler struct {
	investments investmentService
}

func NewInvestmentHandler(investments investmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

type createInvestmentRequest struct {
	Principal          string `json:"principal"`
	Description        string `json:"description"`
	Counterparty       string `json:"counterparty"`
	StartDate          string `json:"start_date"`
	PromisedReturnDate string `json:"promised_return_date"`
	Responsible        string `json:"responsible"`
	AuthorizedBy       string `json:"authorized_by"`
}

func (r createInvestmentRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Principal == "" {
		errs = append(errs, FieldError{Field: "principal", Message: "required"})
	} else if p, err := decimal.NewFromString(r.Principal); err != nil {
		errs = append(errs, FieldError{Field: "principal", Message: "must be a decimal number"})
	} else if !p.IsPositive() {
		errs = append(errs, FieldError{Field: "principal", Message: "must be greater than 0"})
	}

	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	if r.Counterparty == "" {
		errs = append(errs, FieldError{Field: "counterparty", Message: "required"})
	}
	if r.StartDate != "" {
		if _, err := time.Parse(dateLayout, r.StartDate); err != nil {
			errs = append(errs, FieldError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.PromisedReturnDate != "" {
		if _, err := time.Parse(dateLayout, r.PromisedReturnDate); err != nil {
			errs = append(errs, FieldError{Field: "promised_return_date", Message: "must be YYYY-MM-DD"})
		}
	}

	return errs
}

type liquidateRequest struct {
	ReturnedAmount string `json:"returned_amount"`
}

type investmentDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Folio              string           `json:"folio"`
	Principal          decimal.Decimal  `json:"principal"`
	Description        string           `json:"description"`
	Counterparty       string           `json:"counterparty"`
	StartDate          string           `json:"start_date"`
	PromisedReturnDate *string          `json:"promised_return_date,omitempty"`
	Status             string           `json:"status"`
	ReturnedAmount     *decimal.Decimal `json:"returned_amount,omitempty"`
	Gain               *decimal.Decimal `json:"gain,omitempty"`
	ReturnDate         *time.Time       `json:"return_date,omitempty"`
	Overdue            bool             `json:"overdue"`
}

func toInvestmentDTO(inv *domain.Investment, now time.Time) investmentDTO {
	dto := investmentDTO{
		ID:             inv.ID,
		Folio:          inv.Folio,
		Principal:      inv.Principal,
		Description:    inv.Description,
		Counterparty:   inv.Counterparty,
		StartDate:      inv.StartDate.Format(dateLayout),
		Status:         string(inv.Status),
		ReturnedAmount: inv.ReturnedAmount,
		Gain:           inv.Gain,
		ReturnDate:     inv.ReturnDate,
		Overdue:        inv.Overdue(now),
	}
	if inv.PromisedReturnDate != nil {
		formatted := inv.PromisedReturnDate.Format(dateLayout)
		dto.PromisedReturnDate = &formatted
	}
	return dto
}

func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	investments, err := h.investments.List(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	now := time.Now().UTC()
	dtos := make([]investmentDTO, len(investments))
	for i := range investments {
		dtos[i] = toInvestmentDTO(&investments[i], now)
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	principal, _ := decimal.NewFromString(req.Principal)
	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		startDate, _ = time.Parse(dateLayout, req.StartDate)
	}
	var promised *time.Time
	if req.PromisedReturnDate != "" {
		p, _ := time.Parse(dateLayout, req.PromisedReturnDate)
		promised = &p
	}

	inv, err := h.investments.Create(r.Context(), service.CreateInvestmentRequest{
		Principal:          principal,
		Description:        req.Description,
		Counterparty:       req.Counterparty,
		StartDate:          startDate,
		PromisedReturnDate: promised,
		Responsible:        req.Responsible,
		Authorization:      req.AuthorizedBy,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toInvestmentDTO(inv, time.Now().UTC()))
}

func (h *InvestmentHandler) MarkPendingReturn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	inv, err := h.investments.MarkPendingReturn(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toInvestmentDTO(inv, time.Now().UTC()))
}

func (h *InvestmentHandler) Liquidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var req liquidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	returned, err := decimal.NewFromString(req.ReturnedAmount)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "returned_amount", Message: "must be a decimal number"}})
		return
	}

	inv, inflow, err := h.investments.Liquidate(r.Context(), id, returned)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]any{
		"investment": toInvestmentDTO(inv, time.Now().UTC()),
		"movement":   toMovementDTO(inflow),
	})
}
