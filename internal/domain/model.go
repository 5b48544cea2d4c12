package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"account_number"`
	UserID        int64           `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
}

// Payment is the immutable ledger entry for one processed notification.
// A row exists if and only if its amount has been applied to the account.
type Payment struct {
	ID            uuid.UUID `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	AccountID     int64     `json:"account_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// WebhookRequest is the inbound notification from the payment provider.
// AccountID is a hint; zero means the provider did not reference an account.
type WebhookRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	AccountID     int64  `json:"account_id"`
	UserID        int64  `json:"user_id" validate:"required"`
	Amount        int64  `json:"amount"`
	Signature     string `json:"signature" validate:"required"`
}

type WebhookResult struct {
	Status     string          `json:"status"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

type RegisterUserReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// NewAccountNumber generates an externally visible account number,
// e.g. "ACC-A1B2C3D4". Uniqueness is enforced by the store.
func NewAccountNumber() string {
	id := uuid.New()
	return "ACC-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
