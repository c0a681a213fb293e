package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
// Lookups return ErrNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// FindByEmailOrUsername returns the first user matching either field.
	// An empty username only matches on email.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	// FindManyByEmail returns the users that exist; callers compare lengths.
	FindManyByEmail(ctx context.Context, emails []string) ([]*entity.User, error)
	FindManyByID(ctx context.Context, ids []string) ([]*entity.User, error)

	// AddFriend puts friendID into userID's friends set. No-op when present.
	AddFriend(ctx context.Context, userID, friendID string) error
	// AddWatchParty puts partyID into userID's watch party set. No-op when present.
	AddWatchParty(ctx context.Context, userID, partyID string) error
}
