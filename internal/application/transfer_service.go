package application

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/payhub-id/payment-service/config"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	repo "github.com/payhub-id/payment-service/internal/domain/repository"
	"github.com/payhub-id/payment-service/pkg/helpers"
	"github.com/payhub-id/payment-service/pkg/mailer"
)

const defaultDescription = "Payment"

// TransferService moves balance between two users and records the
// transaction. The debit, credit and record insert happen as one atomic
// unit inside the transaction repository; everything in this service
// before that point is advisory validation.
type TransferService struct {
	Users  repo.UserRepository
	Txns   repo.TransactionRepository
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewTransferService(users repo.UserRepository, txns repo.TransactionRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *TransferService {
	return &TransferService{Users: users, Txns: txns, Pub: pub, Logger: logger, Cfg: cfg}
}

type TransferInput struct {
	SenderID      string
	ReceiverEmail string
	Amount        float64
	Description   string
	RequestID     string // optional idempotency key supplied by the client
}

// Transfer validates the request and commits it. Precondition failures
// each return a distinct sentinel and leave no side effects; once the
// commit starts, the only outcomes are full application, a clean
// rollback (conflict, insufficient balance) or an ambiguous timeout.
func (s *TransferService) Transfer(ctx context.Context, in TransferInput) (*entity.Transaction, error) {
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, ErrInvalidAmount
	}
	if in.ReceiverEmail == "" {
		return nil, ErrReceiverRequired
	}
	if in.RequestID != "" {
		if _, err := uuid.Parse(in.RequestID); err != nil {
			return nil, ErrBadRequestID
		}
	}

	receiver, err := s.Users.GetByEmail(ctx, in.ReceiverEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	if receiver.ID == in.SenderID {
		return nil, ErrSelfTransfer
	}

	sender, err := s.Users.GetByID(ctx, in.SenderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// Advisory check only. The conditional debit inside the commit is
	// what holds under concurrent transfers draining the same sender.
	if sender.Balance < in.Amount {
		return nil, repo.ErrInsufficientBalance
	}

	desc := in.Description
	if desc == "" {
		desc = defaultDescription
	}

	cctx, cancel := context.WithTimeout(ctx, s.Cfg.TransferCommitTimeout)
	defer cancel()
	t, err := s.Txns.Transfer(cctx, repo.TransferParams{
		SenderID:    sender.ID,
		ReceiverID:  receiver.ID,
		Amount:      in.Amount,
		Description: desc,
		RequestID:   in.RequestID,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"sender_id":   sender.ID,
				"receiver_id": receiver.ID,
				"amount":      in.Amount,
			}).Warn("transfer commit failed")
		}
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"transaction_id": t.ID,
			"sender_id":      sender.ID,
			"receiver_id":    receiver.ID,
			"amount":         in.Amount,
		}).Info("transfer completed")
	}

	amount := fmt.Sprintf("%.2f", in.Amount)
	enqueueEmail(s.Pub, s.Logger, s.Cfg.MailSendEnabled, mailer.EmailJob{
		To:       sender.Email,
		Template: mailer.TplPaymentSent,
		Data: map[string]any{
			"Name":              sender.Name,
			"AppName":           s.Cfg.AppName,
			"Amount":            amount,
			"CounterpartyName":  receiver.Name,
			"CounterpartyEmail": receiver.Email,
			"Description":       desc,
		},
	})
	enqueueEmail(s.Pub, s.Logger, s.Cfg.MailSendEnabled, mailer.EmailJob{
		To:       receiver.Email,
		Template: mailer.TplPaymentReceived,
		Data: map[string]any{
			"Name":              receiver.Name,
			"AppName":           s.Cfg.AppName,
			"Amount":            amount,
			"CounterpartyName":  sender.Name,
			"CounterpartyEmail": sender.Email,
			"Description":       desc,
		},
	})

	return t, nil
}

// History returns every transaction the user was party to, newest first.
func (s *TransferService) History(ctx context.Context, userID string) ([]entity.Transaction, error) {
	return s.Txns.ListForUser(ctx, userID)
}
