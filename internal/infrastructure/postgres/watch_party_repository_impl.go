package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/internal/domain/repository"
)

type WatchPartyRepository struct {
	pool *pgxpool.Pool
}

func NewWatchPartyRepository(pool *pgxpool.Pool) *WatchPartyRepository {
	return &WatchPartyRepository{pool: pool}
}

func (r *WatchPartyRepository) Create(ctx context.Context, p *entity.WatchParty) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO watch_parties (name, participants)
		VALUES ($1, $2::text[]::uuid[])
		RETURNING id::text, created_at, updated_at
	`, p.Name, p.Participants)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *WatchPartyRepository) FindByID(ctx context.Context, id string) (*entity.WatchParty, error) {
	p := &entity.WatchParty{}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, name, participants::text[], created_at, updated_at
		FROM watch_parties
		WHERE id = $1::uuid
	`, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Participants, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

var _ repository.WatchPartyRepository = (*WatchPartyRepository)(nil)
