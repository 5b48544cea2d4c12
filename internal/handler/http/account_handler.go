package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

type AccountHandler struct {
	service port.AccountService
	logger  *zap.Logger
}

func NewAccountHandler(service port.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{service: service, logger: logger}
}

type accountWithPayments struct {
	domain.Account
	Payments []domain.Payment `json:"payments"`
}

// CreateAccount handles POST /api/v1/users/{userID}/accounts.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("create account failed", zap.Int64("user_id", userID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, account)
}

// GetAccount handles GET /api/v1/accounts/{accountID} and includes the
// account's payments.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, payments, err := h.service.GetAccountWithPayments(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("get account failed", zap.Int64("account_id", accountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if payments == nil {
		payments = []domain.Payment{}
	}
	respondJSON(w, http.StatusOK, accountWithPayments{Account: *account, Payments: payments})
}
