package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// GormSubscriptionRepository implements domain.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GORM subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create inserts the follow. An existing pair yields domain.ErrDuplicate.
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	return wrapError("create subscription", r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error)
}

// Delete removes the follow, returning domain.ErrNotFound when there was none
func (r *GormSubscriptionRepository) Delete(ctx context.Context, subscriberID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&domain.Subscription{})
	if result.Error != nil {
		return wrapError("delete subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapError("delete subscription", gorm.ErrRecordNotFound)
	}
	return nil
}

// Exists reports whether subscriberID follows authorID
func (r *GormSubscriptionRepository) Exists(ctx context.Context, subscriberID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error
	if err != nil {
		return false, wrapError("check subscription", err)
	}
	return count > 0, nil
}

// FindAuthors returns one page of followed authors ordered by username, plus the total count
func (r *GormSubscriptionRepository) FindAuthors(ctx context.Context, subscriberID uint, limit, offset int) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&domain.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.subscriber_id = ?", subscriberID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, wrapError("count subscriptions", err)
	}

	var authors []domain.User
	err := base().
		Order("users.username ASC").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	if err != nil {
		return nil, 0, wrapError("find subscriptions", err)
	}
	return authors, total, nil
}

// SubscribedTo reports which of authorIDs the subscriber follows
func (r *GormSubscriptionRepository) SubscribedTo(ctx context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if subscriberID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var found []uint
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &found).Error
	if err != nil {
		return nil, wrapError("load subscriptions", err)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}
