package repositories

import (
	"context"

	"pandayo-coffee-api/internal/adapters/persistence/models"
)

// UserRepository defines the persistence operations the services need.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	PurgeDeletedBefore(ctx context.Context, days int) (int64, error)
}
