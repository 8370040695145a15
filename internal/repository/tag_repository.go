package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conduit-api/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// ListPopular returns names of tags attached to at least one article, most
// used first and ties by name. With a username, only tags on at least one of
// that user's articles are returned; the ranking still counts every article.
func (r *TagRepository) ListPopular(ctx context.Context, username string, limit int) ([]string, error) {
	q := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(article_tags.article_id) AS article_count").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("article_count DESC, tags.name ASC").
		Limit(limit)

	if username != "" {
		authored := r.db.WithContext(ctx).Table("article_tags").
			Select("article_tags.tag_id").
			Joins("JOIN articles ON articles.id = article_tags.article_id").
			Joins("JOIN users ON users.id = articles.author_id").
			Where("users.username = ?", username)
		q = q.Where("tags.id IN (?)", authored)
	}

	var rows []struct {
		Name         string
		ArticleCount int64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list popular tags failed: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// EnsureNames creates missing tags and returns all of the named tags.
func (r *TagRepository) EnsureNames(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, model.Tag{Name: name})
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
		return nil, fmt.Errorf("create tags failed: %w", err)
	}

	var stored []model.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("query tags failed: %w", err)
	}
	return stored, nil
}
