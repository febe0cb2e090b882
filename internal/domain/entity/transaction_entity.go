package entity

import "time"

// TransactionStatus is the lifecycle state of a transfer record.
// The transfer flow only ever produces Completed; Pending and Failed
// exist for imported or reconciled records.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusPending   TransactionStatus = "PENDING"
	StatusFailed    TransactionStatus = "FAILED"
)

type TransactionType string

const (
	TypePayment TransactionType = "PAYMENT"
)

// Party carries the display fields of one side of a transaction,
// joined in for presentation.
type Party struct {
	Name  string
	Email string
}

// Transaction is an immutable record of a committed transfer.
// Exactly one row is written per successful transfer, inside the same
// database transaction as the two balance mutations it represents.
type Transaction struct {
	ID          string
	Amount      float64
	Description string
	Status      TransactionStatus
	Type        TransactionType
	SenderID    string
	ReceiverID  string
	RequestID   string // optional client idempotency key
	Sender      Party
	Receiver    Party
	CreatedAt   time.Time
}
