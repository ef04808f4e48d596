// Package users implements the credential directory: persistence of user
// records keyed by id and unique email.
package users

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// UpdateParams carries the partial fields of an update. Nil fields are left
// unchanged.
type UpdateParams struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *models.Role
}

// Empty reports whether the update carries no fields at all.
func (p UpdateParams) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil
}

// Repository is the narrow read/write contract the core depends on.
// Implementations map storage-level conditions to common.ErrorNotFound and
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}
