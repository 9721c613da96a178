// Package web is the server-rendered front-end. It calls the same services as
// the JSON API and only maps results to HTML pages.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/sensamie/blogging-api/internal/config"
	"github.com/sensamie/blogging-api/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	Cfg   config.Config
	Blogs *services.BlogService
	tmpl  *template.Template
	md    goldmark.Markdown
}

func NewServer(cfg config.Config, blogs *services.BlogService) (*Server, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		Cfg:   cfg,
		Blogs: blogs,
		tmpl:  tmpl,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(ghtml.WithHardWraps()),
		),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.Welcome)
	r.Get("/blogs", s.BlogsPage)
	r.Get("/search", s.SearchPage)
	r.Get("/blogs/{id}", s.BlogPage)
	r.Get("/feed", s.Feed)
	return r
}

// render buffers the template so a failure can still become a clean error
// page instead of a half-written response.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render", "template", name, "err", err)
		s.renderError(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = s.tmpl.ExecuteTemplate(w, "error.html", nil)
}

func (s *Server) markdown(body string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(buf.String())
}
