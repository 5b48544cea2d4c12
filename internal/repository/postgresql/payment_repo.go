package postgresql

import (
	"context"
	"database/sql"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) port.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM payment WHERE transaction_id = $1)`

	err := q(ctx, r.db).QueryRowContext(ctx, query, transactionID).Scan(&exists)
	return exists, err
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	const query = `INSERT INTO payment (id, transaction_id, amount, account_id)
	VALUES ($1, $2, $3, $4) RETURNING created_at`

	err := q(ctx, r.db).QueryRowContext(ctx, query, p.ID, p.TransactionID, p.Amount, p.AccountID).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "payment_transaction_id_key") {
			return domain.ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	const query = `SELECT id, transaction_id, amount, account_id, created_at
	FROM payment WHERE transaction_id = $1`

	err := q(ctx, r.db).QueryRowContext(ctx, query, transactionID).Scan(
		&p.ID, &p.TransactionID, &p.Amount, &p.AccountID, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Payment, error) {
	const query = `SELECT id, transaction_id, amount, account_id, created_at
	FROM payment WHERE account_id = $1 ORDER BY created_at DESC`

	rows, err := q(ctx, r.db).QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.AccountID, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
