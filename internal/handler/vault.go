package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/domain"
)

// VaultHandler exposes the physical-count aggregator. The count itself is
// operator-side state; the server only computes, nothing is stored here.
type VaultHandler struct{}

func NewVaultHandler() *VaultHandler {
	return &VaultHandler{}
}

type vaultCountRequest struct {
	Bills map[string]int `json:"bills"`
	Coins map[string]int `json:"coins"`
}

func (r vaultCountRequest) toCount() domain.VaultCount {
	return domain.VaultCount{Bills: r.Bills, Coins: r.Coins}.Normalize()
}

type vaultTotalDTO struct {
	Total decimal.Decimal `json:"total"`
}

func (h *VaultHandler) Total(w http.ResponseWriter, r *http.Request) {
	var req vaultCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	count := domain.VaultCount{Bills: req.Bills, Coins: req.Coins}
	if err := count.Validate(); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, vaultTotalDTO{Total: count.Normalize().Total()})
}
