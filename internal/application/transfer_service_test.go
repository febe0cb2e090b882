package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/payhub-id/payment-service/config"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	repo "github.com/payhub-id/payment-service/internal/domain/repository"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, id, name, profilePicture string) (*entity.User, error) {
	args := m.Called(ctx, id, name, profilePicture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) SetActive(ctx context.Context, id string, active bool) (*entity.User, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) SetRole(ctx context.Context, id string, role entity.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepo) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockTxnRepo struct {
	mock.Mock
}

func (m *MockTxnRepo) Transfer(ctx context.Context, p repo.TransferParams) (*entity.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTxnRepo) ListForUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

func (m *MockTxnRepo) RecentForUser(ctx context.Context, userID string, limit int) ([]entity.Transaction, []entity.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]entity.Transaction), args.Get(1).([]entity.Transaction), args.Error(2)
}

func (m *MockTxnRepo) CountForUser(ctx context.Context, userID string) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockTxnRepo) Stats(ctx context.Context) (int64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

func (m *MockTxnRepo) ListAll(ctx context.Context) ([]entity.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:               "payment-service-test",
		StartingBalance:       1000,
		TransferCommitTimeout: time.Second,
		MailSendEnabled:       false,
	}
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupTransferService(t *testing.T) (*TransferService, *MockUserRepo, *MockTxnRepo) {
	t.Helper()
	users := new(MockUserRepo)
	txns := new(MockTxnRepo)
	svc := NewTransferService(users, txns, nil, testLogger(), testConfig())
	return svc, users, txns
}

func TestTransfer_Success(t *testing.T) {
	svc, users, txns := setupTransferService(t)
	ctx := context.Background()

	sender := &entity.User{ID: "s1", Email: "alice@example.com", Name: "Alice", Balance: 500}
	receiver := &entity.User{ID: "r1", Email: "bob@example.com", Name: "Bob", Balance: 100}

	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(receiver, nil)
	users.On("GetByID", mock.Anything, "s1").Return(sender, nil)
	txns.On("Transfer", mock.Anything, mock.MatchedBy(func(p repo.TransferParams) bool {
		return p.SenderID == "s1" && p.ReceiverID == "r1" && p.Amount == 200 && p.Description == "Lunch"
	})).Return(&entity.Transaction{ID: "t1", Amount: 200, Status: entity.StatusCompleted}, nil)

	tx, err := svc.Transfer(ctx, TransferInput{
		SenderID:      "s1",
		ReceiverEmail: "bob@example.com",
		Amount:        200,
		Description:   "Lunch",
	})

	require.NoError(t, err)
	assert.Equal(t, "t1", tx.ID)
	users.AssertExpectations(t)
	txns.AssertExpectations(t)
}

func TestTransfer_DefaultDescription(t *testing.T) {
	svc, users, txns := setupTransferService(t)

	sender := &entity.User{ID: "s1", Email: "a@x.com", Balance: 500}
	receiver := &entity.User{ID: "r1", Email: "b@x.com"}

	users.On("GetByEmail", mock.Anything, "b@x.com").Return(receiver, nil)
	users.On("GetByID", mock.Anything, "s1").Return(sender, nil)
	txns.On("Transfer", mock.Anything, mock.MatchedBy(func(p repo.TransferParams) bool {
		return p.Description == "Payment"
	})).Return(&entity.Transaction{ID: "t1"}, nil)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "b@x.com", Amount: 50,
	})

	require.NoError(t, err)
	txns.AssertExpectations(t)
}

func TestTransfer_InvalidAmount(t *testing.T) {
	svc, users, txns := setupTransferService(t)

	for _, amount := range []float64{0, -10} {
		_, err := svc.Transfer(context.Background(), TransferInput{
			SenderID: "s1", ReceiverEmail: "b@x.com", Amount: amount,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	// amount checks fire before any repository access
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	txns.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_ReceiverRequired(t *testing.T) {
	svc, _, _ := setupTransferService(t)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "", Amount: 10,
	})
	assert.ErrorIs(t, err, ErrReceiverRequired)
}

func TestTransfer_BadRequestID(t *testing.T) {
	svc, _, _ := setupTransferService(t)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "b@x.com", Amount: 10, RequestID: "not-a-uuid",
	})
	assert.ErrorIs(t, err, ErrBadRequestID)
}

func TestTransfer_ReceiverNotFound(t *testing.T) {
	svc, users, txns := setupTransferService(t)

	users.On("GetByEmail", mock.Anything, "missing@x.com").Return(nil, repo.ErrNotFound)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "missing@x.com", Amount: 10,
	})

	assert.ErrorIs(t, err, ErrReceiverNotFound)
	txns.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_SelfTransfer(t *testing.T) {
	svc, users, txns := setupTransferService(t)

	users.On("GetByEmail", mock.Anything, "alice@x.com").Return(&entity.User{ID: "s1", Email: "alice@x.com"}, nil)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "alice@x.com", Amount: 10,
	})

	assert.ErrorIs(t, err, ErrSelfTransfer)
	txns.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_InsufficientBalance_NoCommit(t *testing.T) {
	svc, users, txns := setupTransferService(t)

	users.On("GetByEmail", mock.Anything, "b@x.com").Return(&entity.User{ID: "r1", Email: "b@x.com"}, nil)
	users.On("GetByID", mock.Anything, "s1").Return(&entity.User{ID: "s1", Balance: 5}, nil)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "b@x.com", Amount: 10,
	})

	assert.ErrorIs(t, err, repo.ErrInsufficientBalance)
	txns.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_CommitErrorsPassThrough(t *testing.T) {
	for _, want := range []error{
		repo.ErrInsufficientBalance,
		repo.ErrDuplicateRequest,
		repo.ErrCommitConflict,
		repo.ErrCommitTimeout,
	} {
		svc, users, txns := setupTransferService(t)
		users.On("GetByEmail", mock.Anything, "b@x.com").Return(&entity.User{ID: "r1", Email: "b@x.com"}, nil)
		users.On("GetByID", mock.Anything, "s1").Return(&entity.User{ID: "s1", Balance: 100}, nil)
		txns.On("Transfer", mock.Anything, mock.Anything).Return(nil, want)

		_, err := svc.Transfer(context.Background(), TransferInput{
			SenderID: "s1", ReceiverEmail: "b@x.com", Amount: 10,
		})
		assert.ErrorIs(t, err, want)
	}
}

func TestTransfer_StoreFaultPassesThrough(t *testing.T) {
	svc, users, _ := setupTransferService(t)

	boom := errors.New("connection refused")
	users.On("GetByEmail", mock.Anything, "b@x.com").Return(nil, boom)

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderID: "s1", ReceiverEmail: "b@x.com", Amount: 10,
	})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrReceiverNotFound)
}

func TestHistory(t *testing.T) {
	svc, _, txns := setupTransferService(t)

	txns.On("ListForUser", mock.Anything, "u1").Return([]entity.Transaction{
		{ID: "t2"}, {ID: "t1"},
	}, nil)

	got, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
}
