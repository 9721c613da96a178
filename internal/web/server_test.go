package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensamie/blogging-api/internal/config"
	"github.com/sensamie/blogging-api/internal/models"
	"github.com/sensamie/blogging-api/internal/repository/memory"
	"github.com/sensamie/blogging-api/internal/services"
)

func newWebServer(t *testing.T) (*Server, *services.BlogService, string) {
	t.Helper()
	users := memory.NewUsers()
	blogs := memory.NewBlogs()
	svc := services.NewBlogService(blogs, users, memory.NewAuditEvents(), nil)

	u, err := users.Create(context.Background(), models.User{
		FirstName: "Sen", LastName: "Samie",
		Email: "sen@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	s, err := NewServer(config.Config{Env: "local", SiteBaseURL: "http://localhost:8080"}, svc)
	require.NoError(t, err)
	return s, svc, u.ID
}

func publish(t *testing.T, svc *services.BlogService, authorID, title, body string) models.Blog {
	t.Helper()
	b, err := svc.Create(context.Background(), services.BlogInput{
		Title: title, Body: body, State: models.StatePublished,
	}, authorID)
	require.NoError(t, err)
	return b
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestWelcomePage(t *testing.T) {
	s, _, _ := newWebServer(t)
	rec := get(t, s.Routes(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestBlogsPage(t *testing.T) {
	s, svc, author := newWebServer(t)
	publish(t, svc, author, "Hello Web", "plain body")

	rec := get(t, s.Routes(), "/blogs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello Web")
	assert.Contains(t, rec.Body.String(), "Sen Samie")

	// overflow renders the notice instead of failing
	rec = get(t, s.Routes(), "/blogs?page=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No more pages")
}

func TestBlogPageRendersMarkdown(t *testing.T) {
	s, svc, author := newWebServer(t)
	b := publish(t, svc, author, "Formatted", "# Heading\n\nSome **bold** text.")

	rec := get(t, s.Routes(), "/blogs/"+b.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1")
	assert.Contains(t, rec.Body.String(), "<strong>bold</strong>")
}

func TestBlogPageCountsAsRead(t *testing.T) {
	s, svc, author := newWebServer(t)
	b := publish(t, svc, author, "Counted", "body")

	get(t, s.Routes(), "/blogs/"+b.ID)
	got, err := svc.PublishedByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ReadCount)
}

func TestBlogPageNotFound(t *testing.T) {
	s, svc, author := newWebServer(t)

	rec := get(t, s.Routes(), "/blogs/not-a-uuid")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// drafts stay hidden from the public page
	d, err := svc.Create(context.Background(), services.BlogInput{
		Title: "Secret Draft", Body: "b",
	}, author)
	require.NoError(t, err)
	rec = get(t, s.Routes(), "/blogs/"+d.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchPage(t *testing.T) {
	s, svc, author := newWebServer(t)
	publish(t, svc, author, "Go Generics", "body")

	rec := get(t, s.Routes(), "/search?query=generics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go Generics")

	rec = get(t, s.Routes(), "/search?query=zzz-no-match")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Go Generics")
}

func TestFeed(t *testing.T) {
	s, svc, author := newWebServer(t)
	publish(t, svc, author, "Feed Item", "body")

	rec := get(t, s.Routes(), "/feed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "xml")
	assert.Contains(t, rec.Body.String(), "Feed Item")
}
