package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/signature"
)

const testSecret = "webhook-test-secret"

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	_ = m.Called(ctx, fn)
	return fn(ctx)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyToBalance(ctx context.Context, id int64, delta decimal.Decimal) (*domain.Account, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type paymentFixture struct {
	tx       *MockTxManager
	payments *MockPaymentRepository
	accounts *MockAccountRepository
	users    *MockUserRepository
	verifier *signature.Verifier
	service  *paymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		tx:       new(MockTxManager),
		payments: new(MockPaymentRepository),
		accounts: new(MockAccountRepository),
		users:    new(MockUserRepository),
		verifier: signature.NewVerifier(testSecret),
	}
	f.service = NewPaymentService(f.tx, f.payments, f.accounts, f.users, f.verifier, zap.NewNop()).(*paymentService)
	return f
}

func (f *paymentFixture) signedRequest(transactionID string, accountID, userID, amount int64) *domain.WebhookRequest {
	req := &domain.WebhookRequest{
		TransactionID: transactionID,
		AccountID:     accountID,
		UserID:        userID,
		Amount:        amount,
	}
	req.Signature = f.verifier.Sign(req)
	return req
}

func TestProcessWebhook_Success(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	account := &domain.Account{ID: 42, AccountNumber: "ACC-AAAA1111", UserID: 7, Balance: decimal.NewFromInt(100)}
	updated := &domain.Account{ID: 42, AccountNumber: "ACC-AAAA1111", UserID: 7, Balance: decimal.NewFromInt(150)}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(account, nil)
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.accounts.On("ApplyToBalance", mock.Anything, int64(42), decimal.NewFromInt(50)).Return(updated, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(150)))

	f.payments.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
}

func TestProcessWebhook_InvalidSignature(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)
	req.Signature = "deadbeef"

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Nil(t, result)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestProcessWebhook_TamperedAmount(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)
	req.Amount = 5000

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Nil(t, result)
}

func TestProcessWebhook_DuplicatePreCheck(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	payment := &domain.Payment{ID: uuid.New(), TransactionID: "tx-1", Amount: 50, AccountID: 42}
	account := &domain.Account{ID: 42, UserID: 7, Balance: decimal.NewFromInt(150)}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(true, nil)
	f.payments.On("GetByTransactionID", mock.Anything, "tx-1").Return(payment, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(account, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(150)))

	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "ApplyToBalance", mock.Anything, mock.Anything, mock.Anything)
}

// A concurrent identical delivery can slip past the existence pre-check; the
// unique constraint surfaces at insert time and must produce the same
// idempotent success.
func TestProcessWebhook_DuplicateLostRace(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	account := &domain.Account{ID: 42, UserID: 7, Balance: decimal.NewFromInt(150)}
	payment := &domain.Payment{ID: uuid.New(), TransactionID: "tx-1", Amount: 50, AccountID: 42}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(account, nil)
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(domain.ErrDuplicateTransaction)
	f.payments.On("GetByTransactionID", mock.Anything, "tx-1").Return(payment, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(150)))
	f.accounts.AssertNotCalled(t, "ApplyToBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessWebhook_UserNotFound(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)
	f.users.On("GetByID", mock.Anything, int64(7)).Return(nil, domain.ErrUserNotFound)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Nil(t, result)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessWebhook_OwnershipMismatch(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	other := &domain.Account{ID: 42, UserID: 99, Balance: decimal.NewFromInt(100)}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(other, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrAccountOwnership)
	assert.Nil(t, result)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "ApplyToBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessWebhook_AutoCreateAccount(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 0, 7, 50)

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "u@example.com"}, nil)
	f.accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Run(func(args mock.Arguments) {
		a := args.Get(1).(*domain.Account)
		a.ID = 101
		assert.True(t, a.Balance.IsZero())
		assert.Regexp(t, `^ACC-[0-9A-F]{8}$`, a.AccountNumber)
	}).Return(nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.AccountID == 101 && p.TransactionID == "tx-1" && p.Amount == 50
	})).Return(nil)
	f.accounts.On("ApplyToBalance", mock.Anything, int64(101), decimal.NewFromInt(50)).Return(
		&domain.Account{ID: 101, UserID: 7, Balance: decimal.NewFromInt(50)}, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(50)))
	f.accounts.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func TestProcessWebhook_NegativeAmountApplied(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, -30)

	account := &domain.Account{ID: 42, UserID: 7, Balance: decimal.NewFromInt(100)}
	updated := &domain.Account{ID: 42, UserID: 7, Balance: decimal.NewFromInt(70)}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(account, nil)
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.accounts.On("ApplyToBalance", mock.Anything, int64(42), decimal.NewFromInt(-30)).Return(updated, nil)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(70)))
}

func TestProcessWebhook_StorageFailurePropagates(t *testing.T) {
	f := newPaymentFixture()
	req := f.signedRequest("tx-1", 42, 7, 50)

	account := &domain.Account{ID: 42, UserID: 7, Balance: decimal.NewFromInt(100)}
	storageErr := errors.New("database error")

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Exists", mock.Anything, "tx-1").Return(false, nil)
	f.accounts.On("GetByID", mock.Anything, int64(42)).Return(account, nil)
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.accounts.On("ApplyToBalance", mock.Anything, int64(42), decimal.NewFromInt(50)).Return(nil, storageErr)

	result, err := f.service.ProcessWebhook(context.Background(), req)

	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, result)
	// Create was called inside the transaction; the rollback in WithinTx
	// discards it together with the balance update.
	f.payments.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*domain.Payment"))
}
