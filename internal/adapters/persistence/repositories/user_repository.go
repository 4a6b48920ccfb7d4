package repositories

import (
	"context"
	"time"

	"pandayo-coffee-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// queryTimeout bounds every store call so a stalled database surfaces as an
// error instead of hanging the request.
const queryTimeout = 5 * time.Second

// userRepository implements UserRepository on GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// Create inserts a new user. The unique index on email is the source of
// truth for duplicate detection; callers map gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email, the login key.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to a user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.WithContext(ctx).Save(user).Error
}

// List returns all users ordered by ascending ID.
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var users []*models.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByEmail checks if an email is already registered.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// PurgeDeletedBefore permanently removes users soft-deleted more than the
// given number of days ago. Returns the number of rows removed.
func (r *userRepository) PurgeDeletedBefore(ctx context.Context, days int) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -days)
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Where("deleted_at < ?", cutoff).
		Delete(&models.User{})
	return res.RowsAffected, res.Error
}
