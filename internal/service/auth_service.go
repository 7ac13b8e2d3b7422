package service

import (
	"context"
	"errors"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/metrics"
	"github.com/xxxsen/mdesign/internal/model"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/pkg/password"
	"github.com/xxxsen/mdesign/internal/pkg/timeutil"
	"github.com/xxxsen/mdesign/internal/repo"
)

type AuthService struct {
	users *repo.UserRepo
}

func NewAuthService(users *repo.UserRepo) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user. A taken email yields ErrConflict, whether it is
// caught by the lookup or by the unique index on insert.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, appErr.ErrInvalid
	}
	user, err := s.register(ctx, username, email, input.Password)
	if err != nil {
		metrics.IncrementAuthEvent("register", resultOf(err))
		return nil, err
	}
	metrics.IncrementAuthEvent("register", "ok")
	logutil.GetLogger(ctx).Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) register(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, appErr.ErrConflict
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns ErrUnauthorized for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, error) {
	user, err := s.login(ctx, strings.TrimSpace(email), plainPassword)
	if err != nil {
		metrics.IncrementAuthEvent("login", resultOf(err))
		return nil, err
	}
	metrics.IncrementAuthEvent("login", "ok")
	return user, nil
}

func (s *AuthService) login(ctx context.Context, email, plainPassword string) (*model.User, error) {
	if email == "" || plainPassword == "" {
		return nil, appErr.ErrUnauthorized
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			password.CompareDecoy(plainPassword)
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			logutil.GetLogger(ctx).Error("stored password hash unusable", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, appErr.ErrUnauthorized
	}
	return user, nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, appErr.ErrConflict):
		return "conflict"
	case errors.Is(err, appErr.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, appErr.ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}
