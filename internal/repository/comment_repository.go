package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"conduit-api/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *CommentRepository) Exists(ctx context.Context, authorID, articleID uint, body string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("author_id = ? AND article_id = ? AND body = ?", authorID, articleID, body).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query comment failed: %w", err)
	}
	return count > 0, nil
}
