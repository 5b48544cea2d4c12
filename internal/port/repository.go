package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Eugen9719/test-pay-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	// GetByID returns domain.ErrUserNotFound when the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	// GetByID returns (nil, nil) when no account with that id exists.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// ApplyToBalance atomically adds delta to the account balance and returns
	// the account with the updated balance. Must be a row-level increment so
	// concurrent applications to the same account never lose updates.
	ApplyToBalance(ctx context.Context, id int64, delta decimal.Decimal) (*domain.Account, error)
}

type PaymentRepository interface {
	// Exists is the idempotency fast path; the unique constraint on
	// transaction_id enforced by Create is the authoritative guard.
	Exists(ctx context.Context, transactionID string) (bool, error)
	// Create returns domain.ErrDuplicateTransaction when the transaction id
	// is already recorded.
	Create(ctx context.Context, p *domain.Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Payment, error)
}

// TxManager runs fn inside a single storage transaction. Repository calls made
// with the context passed to fn join that transaction; any error from fn rolls
// the whole unit of work back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
