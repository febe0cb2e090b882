package repository

import (
	"context"
	"errors"

	"github.com/payhub-id/payment-service/internal/domain/entity"
)

var (
	// ErrInsufficientBalance is the authoritative rejection from inside
	// the commit: the conditional debit found less than the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateRequest means the client-supplied request id was
	// already persisted with an earlier transfer.
	ErrDuplicateRequest = errors.New("duplicate transfer request")

	// ErrCommitTimeout: the commit deadline passed. Ambiguous by nature;
	// the commit may or may not have applied server-side.
	ErrCommitTimeout = errors.New("transfer commit timed out")

	// ErrCommitConflict: the store aborted the commit due to a
	// serialization failure or deadlock. Safe to retry.
	ErrCommitConflict = errors.New("transfer commit conflict")
)

// TransferParams carries everything the store needs to apply one transfer
// as a single atomic unit: debit sender, credit receiver, insert the record.
type TransferParams struct {
	SenderID    string
	ReceiverID  string
	Amount      float64
	Description string
	RequestID   string // empty means no idempotency key
}

// TransactionRepository persists transfers and reads transaction history.
// Transfer must apply all three mutations or none, at an isolation level
// that forbids concurrent read-modify-write races on the same rows.
type TransactionRepository interface {
	Transfer(ctx context.Context, p TransferParams) (*entity.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]entity.Transaction, error)
	RecentForUser(ctx context.Context, userID string, limit int) (sent, received []entity.Transaction, err error)
	CountForUser(ctx context.Context, userID string) (sent, received int64, err error)
	Stats(ctx context.Context) (count int64, completedSum float64, err error)
	ListAll(ctx context.Context) ([]entity.Transaction, error)
}
