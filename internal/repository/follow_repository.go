package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conduit-api/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// AddEdge records followerID -> followingID. An existing edge is left as is.
func (r *FollowRepository) AddEdge(ctx context.Context, followerID, followingID uint) error {
	edge := model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return fmt.Errorf("add follow edge failed: %w", err)
	}
	return nil
}

// RemoveEdge deletes followerID -> followingID if present.
func (r *FollowRepository) RemoveEdge(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
	if err != nil {
		return fmt.Errorf("remove follow edge failed: %w", err)
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query follow edge failed: %w", err)
	}
	return count > 0, nil
}
