package port

import (
	"context"

	"github.com/Eugen9719/test-pay-service/internal/domain"
)

// SignatureVerifier authenticates inbound provider notifications.
type SignatureVerifier interface {
	Verify(n *domain.WebhookRequest) bool
}

type PaymentService interface {
	ProcessWebhook(ctx context.Context, req *domain.WebhookRequest) (*domain.WebhookResult, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, userID int64) (*domain.Account, error)
	GetAccountWithPayments(ctx context.Context, accountID int64) (*domain.Account, []domain.Payment, error)
}

type UserService interface {
	Register(ctx context.Context, req *domain.RegisterUserReq) (*domain.User, error)
}
