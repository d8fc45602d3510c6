package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidMovementType = &AppError{http.StatusBadRequest, "INVALID_MOVEMENT_TYPE", "Movement type must be income, expense, or investment"}
	ErrInvalidDenomination = &AppError{http.StatusBadRequest, "INVALID_DENOMINATION", "Denomination keys must be decimal numbers"}
	ErrMovementArchived    = &AppError{http.StatusConflict, "MOVEMENT_ARCHIVED", "Movement belongs to a sealed cut"}
	ErrEmptyCut            = &AppError{http.StatusUnprocessableEntity, "EMPTY_CUT", "No pending movements to archive"}
	ErrConcurrentCut       = &AppError{http.StatusConflict, "CONCURRENT_MODIFICATION", "Active movements changed during the cut, please retry"}
	ErrCauseRequired       = &AppError{http.StatusUnprocessableEntity, "ADJUSTMENT_CAUSE_REQUIRED", "An out-of-tolerance cut requires an adjustment cause"}
	ErrAlreadyLiquidated   = &AppError{http.StatusConflict, "ALREADY_LIQUIDATED", "Investment already liquidated"}
	ErrInvalidReturnAmount = &AppError{http.StatusBadRequest, "INVALID_RETURN_AMOUNT", "Returned amount must be greater than zero"}
	ErrInvalidTransition   = &AppError{http.StatusUnprocessableEntity, "INVALID_TRANSITION", "Investment status does not allow this transition"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
