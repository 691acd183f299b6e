package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// GormUserRepository implements domain.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. A taken email or username yields domain.ErrDuplicate.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return wrapError("create user", r.db.WithContext(ctx).Create(user).Error)
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapError("find user", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapError("find user by email", err)
	}
	return &user, nil
}

// FindByUsername retrieves a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapError("find user by username", err)
	}
	return &user, nil
}

// FindAll retrieves one page of users ordered by username, plus the total count
func (r *GormUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, wrapError("count users", err)
	}

	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, wrapError("find users", err)
	}
	return users, total, nil
}

// UpdatePassword stores a new password hash
func (r *GormUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return wrapError("update password", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapError("update password", gorm.ErrRecordNotFound)
	}
	return nil
}
