package users

import (
	"context"

	"github.com/dmitrijs2005/signkeeper/internal/server/models"
)

// Repository persists accounts. Lookups return (nil, nil) when nothing
// matches.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	// FindByUID looks up a local account by username.
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindByUIDAndProvider(ctx context.Context, uid, provider string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	// Save inserts a user with ID 0 and updates any other. It returns
	// common.ErrUserExists when (UID, Provider) is taken and
	// common.ErrUserNotFound when updating a missing row.
	Save(ctx context.Context, user *models.User) (*models.User, error)
	DeleteByID(ctx context.Context, id int64) error
}
