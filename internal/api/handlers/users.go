package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sensamie/blogging-api/internal/api/httpx"
	"github.com/sensamie/blogging-api/internal/api/validate"
	"github.com/sensamie/blogging-api/internal/services"
)

type UsersHandler struct {
	Svc *services.UserService
}

func NewUsersHandler(svc *services.UserService) *UsersHandler {
	return &UsersHandler{Svc: svc}
}

type signupReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *UsersHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Collect(
		validate.Required("first_name", req.FirstName),
		validate.Required("last_name", req.LastName),
		validate.Required("email", req.Email),
		validate.Email("email", req.Email),
		validate.Required("password", req.Password),
	); errs != nil {
		httpx.WriteValidation(w, errs)
		return
	}

	user, token, err := h.Svc.Signup(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrConflict):
		httpx.WriteMessage(w, http.StatusConflict, "User already exists")
		return
	case errors.Is(err, services.ErrValidation):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("signup", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
		"token":   token,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, services.ErrBadCredentials):
		httpx.WriteMessage(w, http.StatusUnprocessableEntity, "Email or password is not correct")
		return
	case err != nil:
		slog.Error("login", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
