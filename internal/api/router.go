package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sensamie/blogging-api/internal/api/handlers"
	"github.com/sensamie/blogging-api/internal/auth"
	"github.com/sensamie/blogging-api/internal/config"
	"github.com/sensamie/blogging-api/internal/metrics"
	"github.com/sensamie/blogging-api/internal/middleware"
	"github.com/sensamie/blogging-api/internal/services"
)

type RouterDeps struct {
	Cfg     config.Config
	UserSvc *services.UserService
	BlogSvc *services.BlogService
	TM      *auth.TokenManager
	// Views is the server-rendered front-end mounted at /views; nil skips it.
	Views http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authmw := middleware.NewAuthMiddleware(d.TM)
	users := handlers.NewUsersHandler(d.UserSvc)
	blogs := handlers.NewBlogsHandler(d.BlogSvc)

	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", users.Signup)
		r.Post("/login", users.Login)
	})

	r.Route("/blogs", func(r chi.Router) {
		// public read paths
		r.Get("/", blogs.List)
		r.Get("/search", blogs.Search)
		r.Get("/{id}", blogs.GetByID)

		// owner-only paths
		r.Group(func(r chi.Router) {
			r.Use(authmw.Auth)
			r.Post("/", blogs.Create)
			r.Get("/owner/blogs", blogs.OwnerBlogs)
			r.Patch("/{id}", blogs.UpdateState)
			r.Put("/{id}", blogs.Edit)
			r.Delete("/{id}", blogs.Delete)
		})
	})

	if d.Views != nil {
		r.Mount("/views", d.Views)
	}

	return r
}
