package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	repo "github.com/devlinkhq/devlink-api/internal/domain/repository"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// AuthService owns registration, login and the issuance side of the
// auth gate. Verification lives in middleware; both share JWTManager.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger}
}

// Register creates a user with a gravatar-derived avatar and a bcrypt
// password hash, then issues a session token. A duplicate email is a
// Conflict whether it is caught by the pre-check or by the unique
// index when two registrations race.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, string, time.Time, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperror.Conflict("user already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", time.Time{}, apperror.StoreUnavailable("register", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	u := &entity.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		AvatarURL: helpers.GravatarURL(email),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", time.Time{}, apperror.Conflict("user already exists")
		}
		return nil, "", time.Time{}, apperror.StoreUnavailable("register", err)
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token signing failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// Login checks the password and issues a token. Unknown email and bad
// password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, apperror.StoreUnavailable("login", err)
	}
	if !helpers.CheckPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token signing failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// CurrentUser loads the authenticated user by the id the gate verified.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", "current user", err)
	}
	return u, nil
}
