package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

type blogsRepo struct{ q Querier }

func NewBlogs(q Querier) repo.Blogs { return &blogsRepo{q: q} }

const blogCols = `id, title, description, state, tags, body, author_id, author, read_count, reading_time, created_at, updated_at`

// listing projection: body stays out of list/search results.
const blogListCols = `id, title, description, state, tags, author_id, author, read_count, reading_time, created_at, updated_at`

func (r *blogsRepo) Create(ctx context.Context, b models.Blog) (models.Blog, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO blogs(id, title, description, state, tags, body, author_id, author)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+blogCols,
		b.ID, b.Title, b.Description, b.State, b.Tags, b.Body, b.AuthorID, b.Author,
	).Scan(&b.ID, &b.Title, &b.Description, &b.State, &b.Tags, &b.Body,
		&b.AuthorID, &b.Author, &b.ReadCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.Blog{}, mapErr(err)
	}
	return b, nil
}

func (r *blogsRepo) GetByID(ctx context.Context, id string) (models.Blog, error) {
	return r.get(ctx, `SELECT `+blogCols+` FROM blogs WHERE id=$1`, id)
}

func (r *blogsRepo) GetByTitle(ctx context.Context, title string) (models.Blog, error) {
	return r.get(ctx, `SELECT `+blogCols+` FROM blogs WHERE title=$1`, title)
}

func (r *blogsRepo) get(ctx context.Context, sql string, arg any) (models.Blog, error) {
	var b models.Blog
	err := r.q.QueryRow(ctx, sql, arg).
		Scan(&b.ID, &b.Title, &b.Description, &b.State, &b.Tags, &b.Body,
			&b.AuthorID, &b.Author, &b.ReadCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.Blog{}, mapErr(err)
	}
	return b, nil
}

func (r *blogsRepo) CountMatching(ctx context.Context, f repo.BlogFilter) (int, error) {
	where, args := buildFilter(f)
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM blogs`+where, args...).Scan(&n)
	return n, err
}

func (r *blogsRepo) FindMatching(ctx context.Context, f repo.BlogFilter, sort repo.BlogSort, skip, limit int) ([]models.Blog, error) {
	where, args := buildFilter(f)
	sql := `SELECT ` + blogListCols + ` FROM blogs` + where +
		` ORDER BY ` + sortColumn(sort.Key) + direction(sort.Desc) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, skip)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Blog{}
	for rows.Next() {
		var b models.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.State, &b.Tags,
			&b.AuthorID, &b.Author, &b.ReadCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *blogsRepo) IncrementRead(ctx context.Context, id string) (models.Blog, error) {
	// Single UPDATE keeps the increment atomic under concurrent readers.
	return r.get(ctx,
		`UPDATE blogs SET read_count = read_count + 1, updated_at = now()
		  WHERE id=$1 AND state='published'
		  RETURNING `+blogCols, id)
}

func (r *blogsRepo) SetReadingTime(ctx context.Context, id, readingTime string) error {
	tag, err := r.q.Exec(ctx, `UPDATE blogs SET reading_time=$2 WHERE id=$1`, id, readingTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *blogsRepo) Update(ctx context.Context, b models.Blog) (models.Blog, error) {
	err := r.q.QueryRow(ctx,
		`UPDATE blogs
		    SET title=$2, description=$3, state=$4, tags=$5, body=$6, author=$7, updated_at=now()
		  WHERE id=$1
		  RETURNING `+blogCols,
		b.ID, b.Title, b.Description, b.State, b.Tags, b.Body, b.Author,
	).Scan(&b.ID, &b.Title, &b.Description, &b.State, &b.Tags, &b.Body,
		&b.AuthorID, &b.Author, &b.ReadCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.Blog{}, mapErr(err)
	}
	return b, nil
}

func (r *blogsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// buildFilter turns a BlogFilter into a WHERE clause plus positional args.
func buildFilter(f repo.BlogFilter) (string, []any) {
	var conds []string
	var args []any

	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		args = append(args, states)
		conds = append(conds, "state = ANY("+next()+")")
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		conds = append(conds, "author_id = "+next()+"")
	}
	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		p := next()
		conds = append(conds, "(author ILIKE "+p+" OR title ILIKE "+p+
			" OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE "+p+"))")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// sortColumn whitelists sort keys; anything unknown falls back to created_at
// so caller input never reaches the ORDER BY raw.
func sortColumn(key string) string {
	switch key {
	case "updated_at", "read_count", "reading_time", "title":
		return key
	default:
		return "created_at"
	}
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}
