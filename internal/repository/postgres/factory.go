package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/sensamie/blogging-api/internal/repository"
)

// Querier is the subset of pgxpool.Pool the repositories need. Tests satisfy
// it with pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repositories struct {
	Users       repo.Users
	Blogs       repo.Blogs
	AuditEvents repo.AuditEvents
}

func NewRepositories(q Querier) Repositories {
	return Repositories{
		Users:       &usersRepo{q},
		Blogs:       &blogsRepo{q},
		AuditEvents: &auditEventsRepo{q},
	}
}
