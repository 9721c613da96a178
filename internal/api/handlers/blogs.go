package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sensamie/blogging-api/internal/api/httpx"
	"github.com/sensamie/blogging-api/internal/api/validate"
	"github.com/sensamie/blogging-api/internal/middleware"
	"github.com/sensamie/blogging-api/internal/models"
	"github.com/sensamie/blogging-api/internal/services"
)

type BlogsHandler struct {
	Svc *services.BlogService
}

func NewBlogsHandler(svc *services.BlogService) *BlogsHandler {
	return &BlogsHandler{Svc: svc}
}

// pageRequest pulls page/limit/sortBy/sortOrder off the query string,
// defaulting anything absent or unparsable.
func pageRequest(r *http.Request) services.PageRequest {
	pr := services.PageRequest{
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		pr.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		pr.Limit = n
	}
	return pr
}

type createBlogReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Body        string   `json:"body"`
	State       string   `json:"state"`
}

func (h *BlogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req createBlogReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Collect(
		validate.Required("title", req.Title),
		validate.Required("body", req.Body),
	); errs != nil {
		httpx.WriteValidation(w, errs)
		return
	}

	blog, err := h.Svc.Create(r.Context(), services.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Body:        req.Body,
		State:       models.BlogState(req.State),
	}, user.ID)
	switch {
	case errors.Is(err, services.ErrConflict):
		httpx.WriteMessage(w, http.StatusConflict, "Blog already created.")
		return
	case errors.Is(err, services.ErrValidation):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("create blog", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteData(w, http.StatusCreated, "Blog created successfully", blog)
}

func (h *BlogsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.List(r.Context(), pageRequest(r))
	if err != nil {
		var pe *services.PageError
		if errors.As(err, &pe) {
			httpx.WritePage(w, http.StatusNotFound, pe.Message, nil, pe.CurrentPage, pe.TotalPages)
			return
		}
		slog.Error("list blogs", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WritePage(w, http.StatusOK, "All published blogs fetched successfully",
		page.Blogs, page.CurrentPage, page.TotalPages)
}

func (h *BlogsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Search query is required as a query parameter.")
		return
	}

	page, err := h.Svc.Search(r.Context(), query, pageRequest(r))
	if err != nil {
		var pe *services.PageError
		if errors.As(err, &pe) {
			httpx.WritePage(w, http.StatusNotFound, pe.Message, nil, pe.CurrentPage, pe.TotalPages)
			return
		}
		slog.Error("search blogs", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WritePage(w, http.StatusOK,
		fmt.Sprintf("Published blogs with %q fetched successfully", query),
		page.Blogs, page.CurrentPage, page.TotalPages)
}

func (h *BlogsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Svc.PublishedByID(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, services.ErrInvalidID):
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid ID format")
		return
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "Blog not found or not published.")
		return
	case err != nil:
		slog.Error("get blog", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteData(w, http.StatusOK, "Published blog fetched successfully", blog)
}

func (h *BlogsHandler) OwnerBlogs(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	state := models.BlogState(r.URL.Query().Get("state"))

	page, err := h.Svc.OwnerBlogs(r.Context(), user.ID, state, pageRequest(r))
	if err != nil {
		var pe *services.PageError
		if errors.As(err, &pe) {
			// past the last page of your own blogs is not an error
			httpx.WritePage(w, http.StatusOK, pe.Message, nil, pe.CurrentPage, pe.TotalPages)
			return
		}
		if errors.Is(err, services.ErrValidation) {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("owner blogs", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WritePage(w, http.StatusOK, "Blogs fetched successfully",
		page.Blogs, page.CurrentPage, page.TotalPages)
}

type updateStateReq struct {
	State string `json:"state"`
}

func (h *BlogsHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req updateStateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	blog, err := h.Svc.UpdateState(r.Context(), chi.URLParam(r, "id"), user.ID, models.BlogState(req.State))
	if done := h.writeMutationErr(w, err); done {
		return
	}

	httpx.WriteData(w, http.StatusOK, "Blog state updated successfully", blog)
}

func (h *BlogsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req createBlogReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	blog, err := h.Svc.Edit(r.Context(), chi.URLParam(r, "id"), user.ID, services.BlogEdit{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Body:        req.Body,
	})
	if done := h.writeMutationErr(w, err); done {
		return
	}

	httpx.WriteData(w, http.StatusOK, "Blog edited successfully", blog)
}

func (h *BlogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := chi.URLParam(r, "id")

	var err error
	if r.URL.Query().Get("mode") == "hard" {
		err = h.Svc.HardDelete(r.Context(), id, user.ID)
	} else {
		_, err = h.Svc.SoftDelete(r.Context(), id, user.ID)
	}
	if done := h.writeMutationErr(w, err); done {
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Blog deleted successfully.")
}

// writeMutationErr maps ownership-checked mutation failures. Forbidden is
// reported as not found so non-owners learn nothing.
func (h *BlogsHandler) writeMutationErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrInvalidID):
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNotOwned):
		httpx.WriteMessage(w, http.StatusNotFound, "Blog not found or not authorized")
	case errors.Is(err, services.ErrValidation):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		httpx.WriteMessage(w, http.StatusConflict, "A blog with this title already exists. Please use a different title.")
	default:
		slog.Error("blog mutation", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
	}
	return true
}
