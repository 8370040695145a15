package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"conduit-api/internal/model"
)

type RowCounts struct {
	Users    int64 `json:"users"`
	Articles int64 `json:"articles"`
	Comments int64 `json:"comments"`
	Tags     int64 `json:"tags"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Counts(ctx context.Context) (*RowCounts, error) {
	var counts RowCounts
	targets := []struct {
		model interface{}
		dst   *int64
	}{
		{&model.User{}, &counts.Users},
		{&model.Article{}, &counts.Articles},
		{&model.Comment{}, &counts.Comments},
		{&model.Tag{}, &counts.Tags},
	}
	for _, t := range targets {
		if err := r.db.WithContext(ctx).Model(t.model).Count(t.dst).Error; err != nil {
			return nil, fmt.Errorf("count rows failed: %w", err)
		}
	}
	return &counts, nil
}
