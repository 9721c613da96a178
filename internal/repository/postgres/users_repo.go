package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

type usersRepo struct{ q Querier }

func NewUsers(q Querier) repo.Users { return &usersRepo{q: q} }

const userCols = `id, first_name, last_name, email, password_hash, created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO users(id, first_name, last_name, email, password_hash)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+userCols,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
}

func (r *usersRepo) get(ctx context.Context, sql string, arg any) (models.User, error) {
	var u models.User
	err := r.q.QueryRow(ctx, sql, arg).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

// mapErr translates driver errors into the repository sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrDuplicate
	}
	return err
}
