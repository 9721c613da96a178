package services

import (
	"context"

	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// PageRequest is the caller's pagination and ordering choice. Zero values
// take the documented defaults.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string // timestamp (default), created_at, updated_at, read_count, reading_time, title
	SortOrder string // asc | desc (default)
}

func (p PageRequest) withDefaults() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p PageRequest) skip() int { return (p.Page - 1) * p.Limit }

func (p PageRequest) sort() repo.BlogSort {
	key := p.SortBy
	if key == "" || key == "timestamp" {
		key = "created_at"
	}
	return repo.BlogSort{Key: key, Desc: p.SortOrder != "asc"}
}

// BlogPage is one bounded, deterministic result window.
type BlogPage struct {
	Blogs       []models.Blog
	CurrentPage int
	TotalPages  int
}

func totalPages(totalCount, limit int) int {
	return (totalCount + limit - 1) / limit
}

// page computes the window for a filter. The total count runs first against
// the same filter; a page past the end yields a PageError, with emptyMsg when
// the filter matched nothing at all.
func (s *BlogService) page(ctx context.Context, f repo.BlogFilter, pr PageRequest, emptyMsg string) (BlogPage, error) {
	pr = pr.withDefaults()

	totalCount, err := s.blogs.CountMatching(ctx, f)
	if err != nil {
		return BlogPage{}, err
	}
	tp := totalPages(totalCount, pr.Limit)

	if pr.Page > tp {
		msg := "No more pages"
		if tp == 0 {
			msg = emptyMsg
		}
		return BlogPage{}, &PageError{Message: msg, CurrentPage: pr.Page, TotalPages: tp}
	}

	blogs, err := s.blogs.FindMatching(ctx, f, pr.sort(), pr.skip(), pr.Limit)
	if err != nil {
		return BlogPage{}, err
	}
	return BlogPage{Blogs: blogs, CurrentPage: pr.Page, TotalPages: tp}, nil
}
