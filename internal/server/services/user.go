// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, session issuance, and user
// record management on top of the users repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
)

// UpdateUserParams carries the partial fields of a user update as submitted
// by a caller. A non-nil Password is re-hashed before persisting.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// UserService provides authentication-related operations:
//   - Register: create users and issue a first session
//   - Login: verify credentials and mint a session token
//   - IssueSession: sign a fresh token for a stored record
//   - Get/List/Update/Delete: user record management
type UserService struct {
	repo                  users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

// NewUserService constructs a UserService using the repository and server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// Register creates a new user with the given credentials and returns the
// stored record together with a session token. A taken email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		// Hashing failures are internal; the cause never reaches the client.
		return nil, "", fmt.Errorf("%w: hashing failure: %v", common.ErrorInternal, err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.IssueSession(created)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Login verifies the credentials and, on success, returns the user record
// and a fresh session token. An unknown email and a wrong password are
// indistinguishable: both come back as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.IssueSession(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// IssueSession signs a fresh identity claim set for the stored record.
func (s *UserService) IssueSession(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// ListUsers returns all stored users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return result, nil
}

// GetUser returns a user by id or common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies the non-nil fields of params to the stored record.
// Role policy (who may change the role field) is enforced by the caller;
// this method only persists.
func (s *UserService) UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (*models.User, error) {
	repoParams := users.UpdateParams{
		Name:  params.Name,
		Email: params.Email,
		Role:  params.Role,
	}

	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: hashing failure: %v", common.ErrorInternal, err)
		}
		repoParams.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, repoParams)
}

// DeleteUser removes the record and returns it, or common.ErrorNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.Delete(ctx, id)
}
