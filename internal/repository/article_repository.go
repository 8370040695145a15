package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conduit-api/internal/model"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query article by slug failed: %w", err)
	}
	return &article, nil
}

// UpsertBySlug creates the article or refreshes the content and author of
// the row with the same slug. article.ID is filled on return.
func (r *ArticleRepository) UpsertBySlug(ctx context.Context, article *model.Article) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "body", "author_id", "updated_at"}),
	}).Create(article).Error
	if err != nil {
		return fmt.Errorf("upsert article failed: %w", err)
	}

	stored, err := r.GetBySlug(ctx, article.Slug)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("upsert article failed: %s vanished", article.Slug)
	}
	article.ID = stored.ID
	return nil
}

// AttachTags adds article-tag edges, keeping those already present.
func (r *ArticleRepository) AttachTags(ctx context.Context, articleID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	edges := make([]model.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		edges = append(edges, model.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return fmt.Errorf("attach article tags failed: %w", err)
	}
	return nil
}
