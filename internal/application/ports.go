package application

import (
	"context"
	"io"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

// PasswordHasher is the one-way hash used for credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(plain, hash string) bool
}

// AvatarStore persists an uploaded file and returns the reference stored on the user.
// Delete removes a file by that reference; an already missing file is not an error.
type AvatarStore interface {
	Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// UserIndex keeps a searchable copy of public profiles.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]entity.PublicProfile, error)
}

// Notifier hands notification jobs to the email worker. Implementations must
// not block the request on delivery.
type Notifier interface {
	Notify(ctx context.Context, job mailer.Job)
}

type noopIndex struct{}

func (noopIndex) Index(context.Context, *entity.User) error { return nil }

func (noopIndex) Search(context.Context, string, int) ([]entity.PublicProfile, error) {
	return []entity.PublicProfile{}, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, mailer.Job) {}
