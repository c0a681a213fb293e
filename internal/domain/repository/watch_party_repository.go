package repository

import (
	"context"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
)

type WatchPartyRepository interface {
	Create(ctx context.Context, p *entity.WatchParty) error
	FindByID(ctx context.Context, id string) (*entity.WatchParty, error)
}
