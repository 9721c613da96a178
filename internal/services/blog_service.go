package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sensamie/blogging-api/internal/metrics"
	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
	"github.com/sensamie/blogging-api/internal/worker"
)

// BlogService owns the blog lifecycle: creation, the published read path,
// state transitions, edits and deletion, plus the paginated public listings.
// Both the JSON API and the view layer call into it.
type BlogService struct {
	blogs repo.Blogs
	users repo.Users
	audit repo.AuditEvents
	wp    *worker.Pool
}

func NewBlogService(b repo.Blogs, u repo.Users, a repo.AuditEvents, wp *worker.Pool) *BlogService {
	return &BlogService{blogs: b, users: u, audit: a, wp: wp}
}

// BlogInput is the create payload. State defaults to draft.
type BlogInput struct {
	Title       string
	Description string
	Tags        []string
	Body        string
	State       models.BlogState
}

// BlogEdit is a partial update. An empty field keeps the prior value, so a
// caller cannot clear a field to empty through Edit.
type BlogEdit struct {
	Title       string
	Description string
	Tags        []string
	Body        string
}

// Create persists a new blog for authorID, denormalizing the author's display
// name at write time. A duplicate title yields ErrConflict.
func (s *BlogService) Create(ctx context.Context, in BlogInput, authorID string) (models.Blog, error) {
	b := models.Blog{
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		Body:        in.Body,
		State:       in.State,
		AuthorID:    authorID,
	}
	if err := b.Validate(); err != nil {
		return models.Blog{}, validationErr(err.Error())
	}

	if _, err := s.blogs.GetByTitle(ctx, b.Title); err == nil {
		return models.Blog{}, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.Blog{}, err
	}

	if author, err := s.users.GetByID(ctx, authorID); err == nil {
		b.Author = author.DisplayName()
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.Blog{}, err
	}

	created, err := s.blogs.Create(ctx, b)
	if errors.Is(err, repo.ErrDuplicate) {
		// lost the race with a concurrent create; same outcome as the pre-check
		return models.Blog{}, ErrConflict
	}
	if err != nil {
		return models.Blog{}, err
	}

	metrics.BlogsCreatedTotal.Inc()
	s.auditAsync(created.ID, "created", "blog created")
	slog.InfoContext(ctx, "blog created", "id", created.ID, "title", created.Title)
	return created, nil
}

// PublishedByID is the public read path: it atomically increments read_count,
// recomputes and persists reading_time, and returns the updated record.
// Drafts, deleted blogs and unknown ids all yield ErrNotFound untouched.
func (s *BlogService) PublishedByID(ctx context.Context, id string) (models.Blog, error) {
	if err := uuid.Validate(id); err != nil {
		return models.Blog{}, ErrInvalidID
	}

	b, err := s.blogs.IncrementRead(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Blog{}, ErrNotFound
	}
	if err != nil {
		return models.Blog{}, err
	}

	b.ReadingTime = models.ComputeReadingTime(b.Body)
	if err := s.blogs.SetReadingTime(ctx, b.ID, b.ReadingTime); err != nil {
		return models.Blog{}, err
	}

	metrics.BlogReadsTotal.Inc()
	return b, nil
}

// UpdateState moves an owned blog between draft, published and deleted. An
// empty state keeps the current one.
func (s *BlogService) UpdateState(ctx context.Context, id, ownerID string, state models.BlogState) (models.Blog, error) {
	b, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return models.Blog{}, err
	}

	if state != "" {
		if !state.Valid() {
			return models.Blog{}, validationErr("state must be draft, published or deleted")
		}
		b.State = state
	}

	updated, err := s.blogs.Update(ctx, b)
	if err != nil {
		return models.Blog{}, err
	}
	s.auditAsync(updated.ID, "state_change", fmt.Sprintf("state set to %s", updated.State))
	return updated, nil
}

// Edit applies a per-field last-write-wins merge: any empty field in the
// payload keeps the stored value.
func (s *BlogService) Edit(ctx context.Context, id, ownerID string, e BlogEdit) (models.Blog, error) {
	b, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return models.Blog{}, err
	}

	if e.Title != "" {
		b.Title = e.Title
	}
	if e.Description != "" {
		b.Description = e.Description
	}
	if len(e.Tags) > 0 {
		b.Tags = e.Tags
	}
	if e.Body != "" {
		b.Body = e.Body
	}

	updated, err := s.blogs.Update(ctx, b)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Blog{}, ErrConflict
	}
	if err != nil {
		return models.Blog{}, err
	}
	s.auditAsync(updated.ID, "edited", "blog edited")
	return updated, nil
}

// SoftDelete parks the record in the deleted state without removing it.
func (s *BlogService) SoftDelete(ctx context.Context, id, ownerID string) (models.Blog, error) {
	b, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return models.Blog{}, err
	}
	b.State = models.StateDeleted

	updated, err := s.blogs.Update(ctx, b)
	if err != nil {
		return models.Blog{}, err
	}
	s.auditAsync(updated.ID, "soft_deleted", "blog soft deleted")
	return updated, nil
}

// HardDelete removes the record permanently. There is no way back.
func (s *BlogService) HardDelete(ctx context.Context, id, ownerID string) error {
	b, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.blogs.Delete(ctx, b.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.auditAsync(b.ID, "hard_deleted", "blog permanently deleted")
	return nil
}

// List pages over all published blogs.
func (s *BlogService) List(ctx context.Context, pr PageRequest) (BlogPage, error) {
	f := repo.BlogFilter{States: []models.BlogState{models.StatePublished}}
	return s.page(ctx, f, pr, "There are no published blogs at this time.")
}

// Search pages over published blogs whose author, title or tags contain the
// query, case-insensitively.
func (s *BlogService) Search(ctx context.Context, query string, pr PageRequest) (BlogPage, error) {
	f := repo.BlogFilter{
		States: []models.BlogState{models.StatePublished},
		Query:  query,
	}
	return s.page(ctx, f, pr, fmt.Sprintf("There are no published blogs with %q at this time.", query))
}

// OwnerBlogs pages over the caller's own blogs, drafts and published by
// default, or exactly the given state (which may be deleted).
func (s *BlogService) OwnerBlogs(ctx context.Context, ownerID string, state models.BlogState, pr PageRequest) (BlogPage, error) {
	f := repo.BlogFilter{AuthorID: ownerID}
	if state != "" {
		if !state.Valid() {
			return BlogPage{}, validationErr("state must be draft, published or deleted")
		}
		f.States = []models.BlogState{state}
	} else {
		f.States = []models.BlogState{models.StateDraft, models.StatePublished}
	}
	return s.page(ctx, f, pr, "No more pages")
}

// owned loads a blog and verifies ownership as an explicit two-step check.
// ErrNotOwned is distinct internally; the boundary reports it as not found.
func (s *BlogService) owned(ctx context.Context, id, ownerID string) (models.Blog, error) {
	if err := uuid.Validate(id); err != nil {
		return models.Blog{}, ErrInvalidID
	}
	b, err := s.blogs.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Blog{}, ErrNotFound
	}
	if err != nil {
		return models.Blog{}, err
	}
	if b.AuthorID != ownerID {
		return models.Blog{}, ErrNotOwned
	}
	return b, nil
}

// auditAsync records a mutation off the request path. Audit failures are
// logged, never surfaced.
func (s *BlogService) auditAsync(blogID, action, detail string) {
	if s.wp == nil || s.audit == nil {
		return
	}
	id := blogID
	s.wp.Submit(func() {
		err := s.audit.Create(context.Background(), models.AuditEvent{
			EntityType: "blog",
			EntityID:   &id,
			Action:     action,
			Details:    map[string]any{"message": detail},
		})
		if err != nil {
			slog.Error("audit write", "action", action, "blog_id", id, "err", err)
		}
	})
}
