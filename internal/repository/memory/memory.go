// Package memory holds in-memory repository implementations with the same
// semantics as the postgres ones. Tests run the services against these.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

type Users struct {
	mu    sync.Mutex
	byID  map[string]models.User
	clock func() time.Time
}

func NewUsers() *Users {
	return &Users{byID: map[string]models.User{}, clock: time.Now}
}

func (r *Users) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.byID {
		if ex.Email == u.Email {
			return models.User{}, repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.clock()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) GetByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

type Blogs struct {
	mu    sync.Mutex
	byID  map[string]models.Blog
	clock func() time.Time
}

func NewBlogs() *Blogs {
	return &Blogs{byID: map[string]models.Blog{}, clock: time.Now}
}

func (r *Blogs) Create(_ context.Context, b models.Blog) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.byID {
		if ex.Title == b.Title {
			return models.Blog{}, repo.ErrDuplicate
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.ReadingTime == "" {
		b.ReadingTime = "0 min(s)"
	}
	now := r.clock()
	b.CreatedAt, b.UpdatedAt = now, now
	r.byID[b.ID] = b
	return b, nil
}

func (r *Blogs) GetByID(_ context.Context, id string) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return models.Blog{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *Blogs) GetByTitle(_ context.Context, title string) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.Title == title {
			return b, nil
		}
	}
	return models.Blog{}, repo.ErrNotFound
}

func (r *Blogs) CountMatching(_ context.Context, f repo.BlogFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.byID {
		if matches(b, f) {
			n++
		}
	}
	return n, nil
}

func (r *Blogs) FindMatching(_ context.Context, f repo.BlogFilter, s repo.BlogSort, skip, limit int) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hits []models.Blog
	for _, b := range r.byID {
		if matches(b, f) {
			b.Body = "" // listing projection never carries the body
			hits = append(hits, b)
		}
	}
	sortBlogs(hits, s)

	if skip >= len(hits) {
		return []models.Blog{}, nil
	}
	hits = hits[skip:]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (r *Blogs) IncrementRead(_ context.Context, id string) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok || b.State != models.StatePublished {
		return models.Blog{}, repo.ErrNotFound
	}
	b.ReadCount++
	b.UpdatedAt = r.clock()
	r.byID[id] = b
	return b, nil
}

func (r *Blogs) SetReadingTime(_ context.Context, id, readingTime string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	b.ReadingTime = readingTime
	r.byID[id] = b
	return nil
}

func (r *Blogs) Update(_ context.Context, b models.Blog) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[b.ID]
	if !ok {
		return models.Blog{}, repo.ErrNotFound
	}
	for _, ex := range r.byID {
		if ex.ID != b.ID && ex.Title == b.Title {
			return models.Blog{}, repo.ErrDuplicate
		}
	}
	b.AuthorID = cur.AuthorID
	b.ReadCount = cur.ReadCount
	b.ReadingTime = cur.ReadingTime
	b.CreatedAt = cur.CreatedAt
	b.UpdatedAt = r.clock()
	r.byID[b.ID] = b
	return b, nil
}

func (r *Blogs) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func matches(b models.Blog, f repo.BlogFilter) bool {
	if len(f.States) > 0 {
		found := false
		for _, s := range f.States {
			if b.State == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.AuthorID != "" && b.AuthorID != f.AuthorID {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hit := strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Title), q)
		for _, t := range b.Tags {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(t), q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func sortBlogs(blogs []models.Blog, s repo.BlogSort) {
	less := func(a, b models.Blog) bool {
		switch s.Key {
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "read_count":
			return a.ReadCount < b.ReadCount
		case "reading_time":
			return a.ReadingTime < b.ReadingTime
		case "title":
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(blogs, func(i, j int) bool {
		if s.Desc {
			return less(blogs[j], blogs[i])
		}
		return less(blogs[i], blogs[j])
	})
}

type AuditEvents struct {
	mu     sync.Mutex
	Events []models.AuditEvent
}

func NewAuditEvents() *AuditEvents { return &AuditEvents{} }

func (r *AuditEvents) Create(_ context.Context, e models.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now()
	r.Events = append(r.Events, e)
	return nil
}
