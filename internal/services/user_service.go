package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sensamie/blogging-api/internal/auth"
	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
}

func NewUserService(users repo.Users, tm *auth.TokenManager) *UserService {
	return &UserService{users: users, tm: tm}
}

// Signup creates the account and returns it with a signed token. A duplicate
// email yields ErrConflict.
func (s *UserService) Signup(ctx context.Context, firstName, lastName, email, password string) (models.User, string, error) {
	u := models.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
	}
	if err := u.Validate(); err != nil {
		return models.User{}, "", validationErr(err.Error())
	}
	if password == "" {
		return models.User{}, "", validationErr("password is required")
	}

	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return models.User{}, "", ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, "", ErrConflict
	}
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.tm.Sign(created.ID, created.Email)
	if err != nil {
		return models.User{}, "", err
	}
	slog.InfoContext(ctx, "user created", "id", created.ID)
	return created, token, nil
}

// Login verifies the password against the stored hash and issues a token.
// An unknown email is ErrNotFound; a wrong password is ErrBadCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, "", ErrNotFound
	}
	if err != nil {
		return models.User{}, "", err
	}

	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, "", ErrBadCredentials
	}

	token, err := s.tm.Sign(u.ID, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}
