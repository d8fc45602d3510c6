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

const dateLayout = "2006-01-02"

type movementService interface {
	Create(ctx context.Context, req service.CreateMovementRequest) (*domain.Movement, error)
	Correct(ctx context.Context, id uuid.UUID, req service.CreateMovementRequest) (*domain.Movement, *domain.Movement, error)
	List(ctx context.Context, status domain.MovementStatus) ([]domain.Movement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovementHandler struct {
	movements movementService
}

func NewMovementHandler(movements movementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

type createMovementRequest struct {
	Type         string `json:"type"`
	Category     string `json:"category"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	Responsible  string `json:"responsible"`
	AuthorizedBy string `json:"authorized_by"`
	Date         string `json:"date"`
}

func (r createMovementRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.MovementType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be income, expense, or investment"})
	}

	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if amt, err := decimal.NewFromString(r.Amount); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal number"})
	} else if !amt.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}

	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	if r.Responsible == "" {
		errs = append(errs, FieldError{Field: "responsible", Message: "required"})
	}
	if r.Date != "" {
		if _, err := time.Parse(dateLayout, r.Date); err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
		}
	}

	return errs
}

func (r createMovementRequest) toServiceRequest() service.CreateMovementRequest {
	amount, _ := decimal.NewFromString(r.Amount)
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if r.Date != "" {
		date, _ = time.Parse(dateLayout, r.Date)
	}
	return service.CreateMovementRequest{
		Type:          domain.MovementType(r.Type),
		Category:      r.Category,
		Amount:        amount,
		Description:   r.Description,
		Responsible:   r.Responsible,
		Authorization: r.AuthorizedBy,
		Date:          date,
	}
}

type movementDTO struct {
	ID           uuid.UUID       `json:"id"`
	Folio        string          `json:"folio"`
	Type         string          `json:"type"`
	Category     string          `json:"category,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Responsible  string          `json:"responsible"`
	AuthorizedBy string          `json:"authorized_by,omitempty"`
	Date         string          `json:"date"`
	Status       string          `json:"status"`
	CutID        *uuid.UUID      `json:"cut_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toMovementDTO(m *domain.Movement) movementDTO {
	return movementDTO{
		ID:           m.ID,
		Folio:        m.Folio,
		Type:         string(m.Type),
		Category:     m.Category,
		Amount:       m.Amount,
		Description:  m.Description,
		Responsible:  m.Responsible,
		AuthorizedBy: m.Authorization,
		Date:         m.Date.Format(dateLayout),
		Status:       string(m.Status),
		CutID:        m.CutID,
		CreatedAt:    m.CreatedAt,
	}
}

func toMovementDTOs(movements []domain.Movement) []movementDTO {
	dtos := make([]movementDTO, len(movements))
	for i := range movements {
		dtos[i] = toMovementDTO(&movements[i])
	}
	return dtos
}

func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.MovementStatus(r.URL.Query().Get("status"))

	movements, err := h.movements.List(r.Context(), status)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toMovementDTOs(movements))
}

func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	m, err := h.movements.Create(r.Context(), req.toServiceRequest())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toMovementDTO(m))
}

func (h *MovementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.movements.Delete(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// Correct reverses the original movement and re-enters the corrected values.
// The response carries both resulting movements.
func (h *MovementHandler) Correct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	reversal, replacement, err := h.movements.Correct(r.Context(), id, req.toServiceRequest())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, map[string]movementDTO{
		"reversal":    toMovementDTO(reversal),
		"replacement": toMovementDTO(replacement),
	})
}
