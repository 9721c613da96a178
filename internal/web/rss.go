package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"

	"github.com/sensamie/blogging-api/internal/services"
)

// Feed serves the 20 most recently updated published blogs as RSS.
func (s *Server) Feed(w http.ResponseWriter, r *http.Request) {
	feed := &feeds.Feed{
		Title:       "Blogging API",
		Link:        &feeds.Link{Href: s.Cfg.SiteBaseURL + "/views/blogs"},
		Description: "Recently published blogs",
		Created:     time.Now(),
	}

	page, err := s.Blogs.List(r.Context(), services.PageRequest{SortBy: "updated_at"})
	if err != nil {
		var pe *services.PageError
		if !errors.As(err, &pe) {
			slog.Error("rss", "err", err)
			http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
			return
		}
		// no published blogs; an empty feed is fine
	}

	for _, b := range page.Blogs {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       b.Title,
			Link:        &feeds.Link{Href: s.Cfg.SiteBaseURL + "/views/blogs/" + b.ID},
			Description: b.Description,
			Author:      &feeds.Author{Name: b.Author},
			Created:     b.CreatedAt,
			Updated:     b.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := feed.WriteRss(w); err != nil {
		slog.Error("rss write", "err", err)
	}
}
