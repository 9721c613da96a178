package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensamie/blogging-api/internal/auth"
	"github.com/sensamie/blogging-api/internal/config"
	"github.com/sensamie/blogging-api/internal/repository/memory"
	"github.com/sensamie/blogging-api/internal/services"
	"github.com/sensamie/blogging-api/internal/worker"
)

// apiEnv runs the full router over the in-memory repositories, so requests
// exercise middleware, handlers and services together.
type apiEnv struct {
	h http.Handler
}

func newEnv(t *testing.T) *apiEnv {
	t.Helper()
	tm := auth.NewTokenManager("api-test-secret-0123456789abcdef", "blogging-test", time.Hour)
	users := memory.NewUsers()
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	h := NewRouter(RouterDeps{
		Cfg:     config.Config{Env: "local", RateRPS: 1000},
		UserSvc: services.NewUserService(users, tm),
		BlogSvc: services.NewBlogService(memory.NewBlogs(), users, memory.NewAuditEvents(), wp),
		TM:      tm,
	})
	return &apiEnv{h: h}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out),
			"body: %s", rec.Body.String())
	}
	return rec.Code, out
}

func (e *apiEnv) signup(t *testing.T, email string) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/users/signup", "", map[string]any{
		"first_name": "Sen",
		"last_name":  "Samie",
		"email":      email,
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusCreated, code, "signup: %v", body)
	return body["token"].(string)
}

func (e *apiEnv) createBlog(t *testing.T, token, title, state string) map[string]any {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/blogs", token, map[string]any{
		"title": title,
		"body":  "some body text for the post",
		"tags":  []string{"go", "testing"},
		"state": state,
	})
	require.Equal(t, http.StatusCreated, code, "create blog: %v", body)
	return body["data"].(map[string]any)
}

func TestSignupAndLoginFlow(t *testing.T) {
	e := newEnv(t)

	code, body := e.do(t, http.MethodPost, "/users/signup", "", map[string]any{
		"first_name": "Sen",
		"last_name":  "Samie",
		"email":      "sen@example.com",
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "sen@example.com", user["email"])
	_, leaked := user["password"]
	assert.False(t, leaked)

	// same email again
	code, body = e.do(t, http.MethodPost, "/users/signup", "", map[string]any{
		"first_name": "Sen", "last_name": "Samie",
		"email": "sen@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", body["message"])

	code, body = e.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "nobody@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["message"])

	code, body = e.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "sen@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Email or password is not correct", body["message"])

	code, body = e.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "sen@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)
	code, body := e.do(t, http.MethodPost, "/users/signup", "", map[string]any{
		"first_name": "Sen",
		"email":      "not-an-email",
		"password":   "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestBlogsRequireAuth(t *testing.T) {
	e := newEnv(t)

	code, body := e.do(t, http.MethodPost, "/blogs", "", map[string]any{"title": "t", "body": "b"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing bearer token", body["message"])

	code, body = e.do(t, http.MethodGet, "/blogs/owner/blogs", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestCreateBlog(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")

	data := e.createBlog(t, token, "My First Post", "")
	assert.Equal(t, "draft", data["state"])
	assert.Equal(t, "Sen Samie", data["author"])
	assert.Equal(t, float64(0), data["read_count"])

	// same title, even from another account
	other := e.signup(t, "other@example.com")
	code, body := e.do(t, http.MethodPost, "/blogs", other, map[string]any{
		"title": "My First Post", "body": "b",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Blog already created.", body["message"])

	// missing required fields
	code, body = e.do(t, http.MethodPost, "/blogs", token, map[string]any{"title": "No Body"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", body["message"])
}

func TestGetBlogByID(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")

	code, body := e.do(t, http.MethodGet, "/blogs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid ID format", body["message"])

	draft := e.createBlog(t, token, "Hidden Draft", "")
	code, body = e.do(t, http.MethodGet, "/blogs/"+draft["id"].(string), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Blog not found or not published.", body["message"])

	pub := e.createBlog(t, token, "Visible Post", "published")
	id := pub["id"].(string)
	code, body = e.do(t, http.MethodGet, "/blogs/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Published blog fetched successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["read_count"])
	assert.Equal(t, "1 min(s)", data["reading_time"])

	code, body = e.do(t, http.MethodGet, "/blogs/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["data"].(map[string]any)["read_count"])
}

func TestListBlogs(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")
	e.createBlog(t, token, "Post One", "published")
	e.createBlog(t, token, "Post Two", "published")
	e.createBlog(t, token, "Draft Post", "")

	code, body := e.do(t, http.MethodGet, "/blogs", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "All published blogs fetched successfully", body["message"])
	blogs := body["blogs"].([]any)
	require.Len(t, blogs, 2)
	// listing projection leaves the body out
	_, hasBody := blogs[0].(map[string]any)["body"]
	assert.False(t, hasBody)
	assert.Equal(t, float64(1), body["currentPage"])
	assert.Equal(t, float64(1), body["totalPages"])

	// past the last page
	code, body = e.do(t, http.MethodGet, "/blogs?page=5", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, float64(5), body["currentPage"])
	assert.Equal(t, float64(1), body["totalPages"])
	_, hasBlogs := body["blogs"]
	assert.False(t, hasBlogs)
}

func TestSearchBlogs(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")
	e.createBlog(t, token, "Concurrency in Go", "published")
	e.createBlog(t, token, "Cooking at Home", "published")

	code, body := e.do(t, http.MethodGet, "/blogs/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Search query is required as a query parameter.", body["message"])

	code, body = e.do(t, http.MethodGet, "/blogs/search?query=go", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, `Published blogs with "go" fetched successfully`, body["message"])
	// "go" hits one title directly and the other via its tags
	assert.Len(t, body["blogs"].([]any), 2)
}

func TestOwnerBlogs(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")
	e.createBlog(t, token, "Mine Draft", "")
	e.createBlog(t, token, "Mine Published", "published")

	other := e.signup(t, "other@example.com")
	e.createBlog(t, other, "Theirs", "published")

	code, body := e.do(t, http.MethodGet, "/blogs/owner/blogs", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Blogs fetched successfully", body["message"])
	assert.Len(t, body["blogs"].([]any), 2)

	code, body = e.do(t, http.MethodGet, "/blogs/owner/blogs?state=draft", token, nil)
	require.Equal(t, http.StatusOK, code)
	blogs := body["blogs"].([]any)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Mine Draft", blogs[0].(map[string]any)["title"])

	// overflow is not an error on your own shelf
	code, body = e.do(t, http.MethodGet, "/blogs/owner/blogs?page=9", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No more pages", body["message"])
}

func TestUpdateStateAndOwnership(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")
	blog := e.createBlog(t, token, "Lifecycle", "")
	id := blog["id"].(string)

	intruder := e.signup(t, "intruder@example.com")
	code, body := e.do(t, http.MethodPatch, "/blogs/"+id, intruder, map[string]any{"state": "published"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Blog not found or not authorized", body["message"])

	code, body = e.do(t, http.MethodPatch, "/blogs/"+id, token, map[string]any{"state": "published"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Blog state updated successfully", body["message"])
	assert.Equal(t, "published", body["data"].(map[string]any)["state"])
}

func TestEditBlog(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")
	blog := e.createBlog(t, token, "Original Title", "published")
	id := blog["id"].(string)

	code, body := e.do(t, http.MethodPut, "/blogs/"+id, token, map[string]any{
		"description": "fresh description",
	})
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Original Title", data["title"])
	assert.Equal(t, "fresh description", data["description"])

	e.createBlog(t, token, "Taken Title", "published")
	code, body = e.do(t, http.MethodPut, "/blogs/"+id, token, map[string]any{"title": "Taken Title"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "A blog with this title already exists. Please use a different title.", body["message"])
}

func TestDeleteBlog(t *testing.T) {
	e := newEnv(t)
	token := e.signup(t, "author@example.com")

	for _, mode := range []string{"soft", "hard"} {
		t.Run(mode, func(t *testing.T) {
			blog := e.createBlog(t, token, "Doomed "+mode, "published")
			id := blog["id"].(string)

			path := "/blogs/" + id
			if mode == "hard" {
				path += "?mode=hard"
			}
			code, body := e.do(t, http.MethodDelete, path, token, nil)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, "Blog deleted successfully.", body["message"])

			code, _ = e.do(t, http.MethodGet, "/blogs/"+id, "", nil)
			assert.Equal(t, http.StatusNotFound, code)

			code, body = e.do(t, http.MethodGet, "/blogs/owner/blogs?state=deleted", token, nil)
			require.Equal(t, http.StatusOK, code)
			if mode == "soft" {
				assert.Len(t, body["blogs"].([]any), 1)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
