package repository

import (
	"context"
	"errors"

	"github.com/payhub-id/payment-service/internal/domain/entity"
)

// ErrNotFound is returned when a lookup matches no row. Store faults
// (connectivity, bad SQL) are returned as-is and must not be confused
// with it: the auth gate maps ErrNotFound to 401 and everything else to 500.
var ErrNotFound = errors.New("not found")

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id, name, profilePicture string) (*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) (*entity.User, error)
	SetRole(ctx context.Context, id string, role entity.Role) error
	List(ctx context.Context) ([]entity.User, error)
	Count(ctx context.Context) (total int64, active int64, err error)
}
