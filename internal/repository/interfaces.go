package repository

import (
	"context"
	"errors"

	"github.com/sensamie/blogging-api/internal/models"
)

// Store-level sentinels. Implementations translate driver errors (no rows,
// unique violations) into these so no caller depends on pgx.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// BlogFilter narrows CountMatching/FindMatching. Zero fields are ignored.
type BlogFilter struct {
	States   []models.BlogState
	AuthorID string
	// Query is matched case-insensitively as a substring against the author
	// display name, the title and each tag; one hit includes the record.
	Query string
}

// BlogSort names a whitelisted column and a direction.
type BlogSort struct {
	Key  string
	Desc bool
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Blogs interface {
	Create(ctx context.Context, b models.Blog) (models.Blog, error)
	GetByID(ctx context.Context, id string) (models.Blog, error)
	GetByTitle(ctx context.Context, title string) (models.Blog, error)
	CountMatching(ctx context.Context, f BlogFilter) (int, error)
	// FindMatching returns the listing projection: body is never populated.
	FindMatching(ctx context.Context, f BlogFilter, sort BlogSort, skip, limit int) ([]models.Blog, error)
	// IncrementRead atomically bumps read_count of a published blog and
	// returns the updated record, ErrNotFound if it is missing or unpublished.
	IncrementRead(ctx context.Context, id string) (models.Blog, error)
	SetReadingTime(ctx context.Context, id, readingTime string) error
	Update(ctx context.Context, b models.Blog) (models.Blog, error)
	Delete(ctx context.Context, id string) error
}

type AuditEvents interface {
	Create(ctx context.Context, e models.AuditEvent) error
}
