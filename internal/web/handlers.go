package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sensamie/blogging-api/internal/models"
	"github.com/sensamie/blogging-api/internal/services"
)

type pageData struct {
	Title   string
	Blogs   []models.Blog
	Current int
	Pages   int
	Query   string
	Notice  string
}

type blogData struct {
	Blog models.Blog
	Body template.HTML
}

func (s *Server) Welcome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "welcome.html", pageData{Title: "Welcome"})
}

func pageParam(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

func (s *Server) BlogsPage(w http.ResponseWriter, r *http.Request) {
	pr := services.PageRequest{Page: pageParam(r), SortBy: "updated_at"}

	page, err := s.Blogs.List(r.Context(), pr)
	if err != nil {
		var pe *services.PageError
		if errors.As(err, &pe) {
			s.render(w, "blogs.html", pageData{
				Title:   "Blogs",
				Notice:  pe.Message,
				Current: pe.CurrentPage,
				Pages:   pe.TotalPages,
			})
			return
		}
		slog.Error("blogs page", "err", err)
		s.renderError(w)
		return
	}

	s.render(w, "blogs.html", pageData{
		Title:   "Blogs",
		Blogs:   page.Blogs,
		Current: page.CurrentPage,
		Pages:   page.TotalPages,
	})
}

func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	data := pageData{Title: "Search", Query: query}

	if query == "" {
		s.render(w, "search.html", data)
		return
	}

	page, err := s.Blogs.Search(r.Context(), query, services.PageRequest{Page: pageParam(r), SortBy: "updated_at"})
	if err != nil {
		var pe *services.PageError
		if errors.As(err, &pe) {
			data.Notice = pe.Message
			data.Current = pe.CurrentPage
			data.Pages = pe.TotalPages
			s.render(w, "search.html", data)
			return
		}
		slog.Error("search page", "err", err)
		s.renderError(w)
		return
	}

	data.Blogs = page.Blogs
	data.Current = page.CurrentPage
	data.Pages = page.TotalPages
	s.render(w, "search.html", data)
}

// BlogPage shares the fetch-and-increment read path with the API, so a page
// view counts like an API read.
func (s *Server) BlogPage(w http.ResponseWriter, r *http.Request) {
	blog, err := s.Blogs.PublishedByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrInvalidID) {
			s.renderStatus(w, http.StatusNotFound, "notfound.html", pageData{Title: "Not found"})
			return
		}
		slog.Error("blog page", "err", err)
		s.renderError(w)
		return
	}

	s.render(w, "blog.html", blogData{Blog: blog, Body: s.markdown(blog.Body)})
}
