package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conduit-api/internal/model"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// AddEdge records that userID favorited articleID. Repeats are no-ops.
func (r *FavoriteRepository) AddEdge(ctx context.Context, userID, articleID uint) error {
	edge := model.Favorite{UserID: userID, ArticleID: articleID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return fmt.Errorf("add favorite edge failed: %w", err)
	}
	return nil
}
