package postgresql

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) port.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	const query = `INSERT INTO account (account_number, user_id, balance)
	VALUES ($1, $2, $3) RETURNING id`

	err := q(ctx, r.db).QueryRowContext(ctx, query, a.AccountNumber, a.UserID, a.Balance).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err, "account_account_number_key") {
			return domain.ErrAccountNumberTaken
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	const query = `SELECT id, account_number, user_id, balance FROM account WHERE id = $1`

	err := q(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.AccountNumber, &a.UserID, &a.Balance,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ApplyToBalance relies on the database to serialize concurrent increments on
// the same row; the balance is never read-modified-written in application code.
func (r *accountRepository) ApplyToBalance(ctx context.Context, id int64, delta decimal.Decimal) (*domain.Account, error) {
	var a domain.Account
	const query = `UPDATE account SET balance = balance + $1 WHERE id = $2
	RETURNING id, account_number, user_id, balance`

	err := q(ctx, r.db).QueryRowContext(ctx, query, delta, id).Scan(
		&a.ID, &a.AccountNumber, &a.UserID, &a.Balance,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
