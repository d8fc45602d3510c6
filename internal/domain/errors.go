package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidMovementType     = errors.New("invalid movement type")
	ErrInvalidDenomination     = errors.New("invalid denomination")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrMovementArchived        = errors.New("movement already archived")
	ErrEmptyCut                = errors.New("no pending movements to cut")
	ErrConcurrentModification  = errors.New("active movement set changed during cut")
	ErrOperatorAbort           = errors.New("cut aborted by operator")
	ErrCauseRequired           = errors.New("adjustment cause required")
	ErrAlreadyLiquidated       = errors.New("investment already liquidated")
	ErrInvalidReturnAmount     = errors.New("returned amount must be greater than zero")
	ErrInvalidTransition       = errors.New("invalid investment status transition")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
