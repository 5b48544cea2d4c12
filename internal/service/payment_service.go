package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

type paymentService struct {
	tx       port.TxManager
	payments port.PaymentRepository
	accounts port.AccountRepository
	users    port.UserRepository
	verifier port.SignatureVerifier
	logger   *zap.Logger
}

func NewPaymentService(
	tx port.TxManager,
	payments port.PaymentRepository,
	accounts port.AccountRepository,
	users port.UserRepository,
	verifier port.SignatureVerifier,
	logger *zap.Logger,
) port.PaymentService {
	return &paymentService{
		tx:       tx,
		payments: payments,
		accounts: accounts,
		users:    users,
		verifier: verifier,
		logger:   logger,
	}
}

// ProcessWebhook applies one provider notification to the ledger. The payment
// row and the balance update are established together inside a single
// transaction; a redelivered notification comes back as success without
// touching any state.
func (s *paymentService) ProcessWebhook(ctx context.Context, req *domain.WebhookRequest) (*domain.WebhookResult, error) {
	if !s.verifier.Verify(req) {
		s.logger.Warn("webhook rejected",
			zap.String("transaction_id", req.TransactionID),
			zap.Error(domain.ErrInvalidSignature))
		return nil, domain.ErrInvalidSignature
	}

	var result *domain.WebhookResult

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		// Fast path only; the unique constraint hit in payments.Create below
		// is what actually guarantees exactly-once under concurrent delivery.
		exists, err := s.payments.Exists(txCtx, req.TransactionID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateTransaction
		}

		account, err := s.resolveAccount(txCtx, req)
		if err != nil {
			return err
		}

		payment := &domain.Payment{
			ID:            uuid.New(),
			TransactionID: req.TransactionID,
			Amount:        req.Amount,
			AccountID:     account.ID,
		}
		if err := s.payments.Create(txCtx, payment); err != nil {
			return err
		}

		updated, err := s.accounts.ApplyToBalance(txCtx, account.ID, decimal.NewFromInt(req.Amount))
		if err != nil {
			return err
		}

		result = &domain.WebhookResult{Status: "success", NewBalance: updated.Balance}
		return nil
	})

	if errors.Is(err, domain.ErrDuplicateTransaction) {
		return s.replayResult(ctx, req.TransactionID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		zap.String("transaction_id", req.TransactionID),
		zap.Int64("amount", req.Amount),
		zap.String("new_balance", result.NewBalance.String()))
	return result, nil
}

// resolveAccount maps the notification to a ledger account, creating one for
// the user when the referenced account does not exist.
func (s *paymentService) resolveAccount(ctx context.Context, req *domain.WebhookRequest) (*domain.Account, error) {
	if req.AccountID != 0 {
		account, err := s.accounts.GetByID(ctx, req.AccountID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			if account.UserID != req.UserID {
				return nil, domain.ErrAccountOwnership
			}
			return account, nil
		}
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountNumber: domain.NewAccountNumber(),
		UserID:        req.UserID,
		Balance:       decimal.Zero,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// replayResult answers a redelivered notification with the current balance of
// the account the payment was applied to. The provider treats it as success
// and stops retrying.
func (s *paymentService) replayResult(ctx context.Context, transactionID string) (*domain.WebhookResult, error) {
	payment, err := s.payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, payment.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	s.logger.Info("duplicate webhook delivery",
		zap.String("transaction_id", transactionID),
		zap.Int64("account_id", account.ID))
	return &domain.WebhookResult{Status: "success", NewBalance: account.Balance}, nil
}
