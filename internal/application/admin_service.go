package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/payhub-id/payment-service/config"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	repo "github.com/payhub-id/payment-service/internal/domain/repository"
	"github.com/payhub-id/payment-service/pkg/helpers"
	"github.com/payhub-id/payment-service/pkg/mailer"
)

const (
	recentTxnLimit = 10
	statsCacheKey  = "admin:stats"
	statsCacheTTL  = 30 * time.Second
)

// AdminService implements the privileged operations: user administration,
// aggregate stats and the CSV export.
type AdminService struct {
	Users  repo.UserRepository
	Txns   repo.TransactionRepository
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAdminService(users repo.UserRepository, txns repo.TransactionRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AdminService {
	return &AdminService{Users: users, Txns: txns, Redis: rdb, Pub: pub, Logger: logger, Cfg: cfg}
}

// UserOverview is one row of the admin user listing: the account plus its
// most recent activity in both directions.
type UserOverview struct {
	User                 entity.User
	SentTransactions     []entity.Transaction
	ReceivedTransactions []entity.Transaction
	SentCount            int64
	ReceivedCount        int64
}

func (s *AdminService) ListUsers(ctx context.Context) ([]UserOverview, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserOverview, 0, len(users))
	for _, u := range users {
		sent, received, err := s.Txns.RecentForUser(ctx, u.ID, recentTxnLimit)
		if err != nil {
			return nil, err
		}
		sentCount, receivedCount, err := s.Txns.CountForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserOverview{
			User:                 u,
			SentTransactions:     sent,
			ReceivedTransactions: received,
			SentCount:            sentCount,
			ReceivedCount:        receivedCount,
		})
	}
	return out, nil
}

// SetUserActive toggles the active flag. Deactivation locks the user out
// on their next request: the auth gate re-checks the flag every time.
func (s *AdminService) SetUserActive(ctx context.Context, userID string, active bool) (*entity.User, error) {
	u, err := s.Users.SetActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type Stats struct {
	TotalUsers        int64   `json:"totalUsers"`
	ActiveUsers       int64   `json:"activeUsers"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalPayments     float64 `json:"totalPayments"`
}

// Stats returns the aggregate dashboard numbers, cached briefly in redis
// so an open dashboard does not hammer the store.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	if s.Redis != nil {
		var cached Stats
		if found, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	totalUsers, activeUsers, err := s.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalTxns, completedSum, err := s.Txns.Stats(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		TotalTransactions: totalTxns,
		TotalPayments:     completedSum,
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, st, statsCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return st, nil
}

// ExportCSV produces the full system export: a USERS section followed by
// a TRANSACTIONS section.
func (s *AdminService) ExportCSV(ctx context.Context) ([]byte, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.Txns.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	buf.WriteString("USERS\n")
	_ = w.Write([]string{"ID", "Name", "Email", "Role", "Active", "Balance", "Created", "Updated"})
	for _, u := range users {
		_ = w.Write([]string{
			u.ID, u.Name, u.Email, u.Role.String(),
			strconv.FormatBool(u.IsActive),
			fmt.Sprintf("%.2f", u.Balance),
			u.CreatedAt.UTC().Format(time.RFC3339),
			u.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()

	buf.WriteString("\nTRANSACTIONS\n")
	_ = w.Write([]string{"ID", "Amount", "Description", "Status", "Type", "Sender", "Receiver", "Created"})
	for _, t := range txns {
		_ = w.Write([]string{
			t.ID,
			fmt.Sprintf("%.2f", t.Amount),
			t.Description,
			string(t.Status),
			string(t.Type),
			t.Sender.Name,
			t.Receiver.Name,
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateAdmin provisions an ADMIN or SUPER_ADMIN account with a zero
// balance and a generated temporary password delivered by email.
func (s *AdminService) CreateAdmin(ctx context.Context, name, email string, role entity.Role) (*entity.User, error) {
	if !role.In(entity.RoleAdmin, entity.RoleSuperAdmin) {
		return nil, ErrInvalidRole
	}
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	tempPassword, err := helpers.GenTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     role,
		IsActive: true,
		Balance:  0,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	enqueueEmail(s.Pub, s.Logger, s.Cfg.MailSendEnabled, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TplAdminCredentials,
		Data: map[string]any{
			"Name":         u.Name,
			"AppName":      s.Cfg.AppName,
			"Email":        u.Email,
			"TempPassword": tempPassword,
			"Role":         u.Role.String(),
		},
	})

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"admin_id": u.ID, "role": u.Role}).Info("admin account created")
	}
	return u, nil
}

// RemoveAdmin demotes an ADMIN back to USER. Records are never deleted.
func (s *AdminService) RemoveAdmin(ctx context.Context, adminID string) error {
	u, err := s.Users.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.Role == entity.RoleSuperAdmin {
		return ErrCannotRemoveSuperAdmin
	}
	if u.Role != entity.RoleAdmin {
		return ErrNotAnAdmin
	}
	return s.Users.SetRole(ctx, adminID, entity.RoleUser)
}
