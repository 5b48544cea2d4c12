package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

type accountService struct {
	accounts port.AccountRepository
	payments port.PaymentRepository
	users    port.UserRepository
	logger   *zap.Logger
}

func NewAccountService(
	accounts port.AccountRepository,
	payments port.PaymentRepository,
	users port.UserRepository,
	logger *zap.Logger,
) port.AccountService {
	return &accountService{
		accounts: accounts,
		payments: payments,
		users:    users,
		logger:   logger,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountNumber: domain.NewAccountNumber(),
		UserID:        userID,
		Balance:       decimal.Zero,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("user_id", userID),
		zap.String("account_number", account.AccountNumber))
	return account, nil
}

func (s *accountService) GetAccountWithPayments(ctx context.Context, accountID int64) (*domain.Account, []domain.Payment, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	payments, err := s.payments.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return account, payments, nil
}
