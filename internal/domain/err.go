package domain

import "errors"

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrUserNotFound         = errors.New("user not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountOwnership     = errors.New("account belongs to another user")
	ErrAccountNumberTaken   = errors.New("account number already taken")
	ErrEmailTaken           = errors.New("email already registered")
	ErrPaymentNotFound      = errors.New("payment not found")
)
