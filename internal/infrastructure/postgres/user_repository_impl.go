package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/internal/domain/repository"
)

const userColumns = `id::text, name, COALESCE(username, ''), email, password_hash, dob, gender, bio, avatar,
	pref_movies, pref_series, pref_both, genres, character, plot_twist, watch_frequency, popcorn, soundtrack,
	friends::text[], watch_parties::text[], created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Password, &u.DOB, &u.Gender, &u.Bio, &u.Avatar,
		&u.Preferences.Movies, &u.Preferences.Series, &u.Preferences.Both,
		&u.Quiz.Genres, &u.Quiz.Character, &u.Quiz.PlotTwist, &u.Quiz.WatchFrequency, &u.Quiz.Popcorn, &u.Quiz.Soundtrack,
		&u.Friends, &u.WatchParties, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) queryOne(ctx context.Context, where string, args ...any) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...))
}

func (r *UserRepository) queryMany(ctx context.Context, where string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	genres := u.Quiz.Genres
	if genres == nil {
		genres = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, password_hash, dob, gender, bio, avatar,
			pref_movies, pref_series, pref_both, genres, character, plot_twist, watch_frequency, popcorn, soundtrack)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id::text, created_at, updated_at
	`, u.Name, u.Username, u.Email, u.Password, u.DOB, u.Gender, u.Bio, u.Avatar,
		u.Preferences.Movies, u.Preferences.Series, u.Preferences.Both,
		genres, u.Quiz.Character, u.Quiz.PlotTwist, u.Quiz.WatchFrequency, u.Quiz.Popcorn, u.Quiz.Soundtrack)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapErr(err)
	}
	u.Friends = []string{}
	u.WatchParties = []string{}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.queryOne(ctx, `id = $1::uuid`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.queryOne(ctx, `email = $1`, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.queryOne(ctx, `username = $1`, username)
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	// NULLIF keeps an empty username from matching rows without one
	return r.queryOne(ctx, `email = $1 OR username = NULLIF($2, '')`, email, strings.TrimSpace(username))
}

func (r *UserRepository) FindManyByEmail(ctx context.Context, emails []string) ([]*entity.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	return r.queryMany(ctx, `email = ANY($1::text[])`, emails)
}

func (r *UserRepository) FindManyByID(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryMany(ctx, `id = ANY($1::text[]::uuid[])`, ids)
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	return r.appendRef(ctx, "friends", userID, friendID)
}

func (r *UserRepository) AddWatchParty(ctx context.Context, userID, partyID string) error {
	return r.appendRef(ctx, "watch_parties", userID, partyID)
}

// appendRef adds ref to the uuid[] column of one user in a single conditional
// statement, so repeating it never duplicates the element.
func (r *UserRepository) appendRef(ctx context.Context, column, userID, ref string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET `+column+` = array_append(`+column+`, $2::uuid), updated_at = now()
		WHERE id = $1::uuid AND NOT ($2::uuid = ANY(`+column+`))
	`, userID, ref)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}

	// either already present or no such user
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1::uuid)`, userID).Scan(&exists); err != nil {
		return mapErr(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
