// Package seed loads a small demo data set into the database. Running it
// twice leaves the same rows in place.
package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"conduit-api/internal/model"
)

type UserWriter interface {
	UpsertByEmail(ctx context.Context, user *model.User) error
}

type TagWriter interface {
	EnsureNames(ctx context.Context, names []string) ([]model.Tag, error)
}

type ArticleWriter interface {
	UpsertBySlug(ctx context.Context, article *model.Article) error
	AttachTags(ctx context.Context, articleID uint, tagIDs []uint) error
}

type CommentWriter interface {
	Exists(ctx context.Context, authorID, articleID uint, body string) (bool, error)
	Create(ctx context.Context, comment *model.Comment) error
}

type FavoriteWriter interface {
	AddEdge(ctx context.Context, userID, articleID uint) error
}

type Summary struct {
	Users     int
	Tags      int
	Articles  int
	Comments  int
	Favorites int
}

type Seeder struct {
	users      UserWriter
	tags       TagWriter
	articles   ArticleWriter
	comments   CommentWriter
	favorites  FavoriteWriter
	bcryptCost int
}

func NewSeeder(users UserWriter, tags TagWriter, articles ArticleWriter, comments CommentWriter, favorites FavoriteWriter, bcryptCost int) *Seeder {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{
		users:      users,
		tags:       tags,
		articles:   articles,
		comments:   comments,
		favorites:  favorites,
		bcryptCost: bcryptCost,
	}
}

// Run writes accounts in order: users, tags, articles with their tags,
// comments, then favorites.
func (s *Seeder) Run(ctx context.Context, accounts []Account) (*Summary, error) {
	summary := &Summary{}

	userIDs := make(map[string]uint, len(accounts))
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s failed: %w", acc.Username, err)
		}
		user := &model.User{
			Email:        acc.Email,
			Username:     acc.Username,
			PasswordHash: string(hash),
			Bio:          acc.Bio,
			Image:        acc.Image,
		}
		if err := s.users.UpsertByEmail(ctx, user); err != nil {
			return nil, err
		}
		userIDs[acc.Username] = user.ID
	}
	summary.Users = len(userIDs)

	tagIDs, err := s.ensureTags(ctx, accounts)
	if err != nil {
		return nil, err
	}
	summary.Tags = len(tagIDs)

	articleIDs := map[string]uint{}
	for _, acc := range accounts {
		for _, a := range acc.Articles {
			article := &model.Article{
				Slug:        a.Slug,
				Title:       a.Title,
				Description: a.Description,
				Body:        a.Body,
				AuthorID:    userIDs[acc.Username],
			}
			if err := s.articles.UpsertBySlug(ctx, article); err != nil {
				return nil, err
			}
			ids := make([]uint, 0, len(a.Tags))
			for _, name := range a.Tags {
				ids = append(ids, tagIDs[name])
			}
			if err := s.articles.AttachTags(ctx, article.ID, ids); err != nil {
				return nil, err
			}
			articleIDs[a.Slug] = article.ID
		}
	}
	summary.Articles = len(articleIDs)

	for _, acc := range accounts {
		authorID := userIDs[acc.Username]
		for _, c := range acc.Comments {
			articleID, ok := articleIDs[c.Slug]
			if !ok {
				logrus.WithField("slug", c.Slug).Warn("seed comment skipped: unknown article")
				continue
			}
			exists, err := s.comments.Exists(ctx, authorID, articleID, c.Body)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}
			if err := s.comments.Create(ctx, &model.Comment{Body: c.Body, ArticleID: articleID, AuthorID: authorID}); err != nil {
				return nil, err
			}
			summary.Comments++
		}
	}

	for _, acc := range accounts {
		for _, a := range acc.Articles {
			for _, fan := range a.FavoritedBy {
				userID, ok := userIDs[fan]
				if !ok {
					continue
				}
				if err := s.favorites.AddEdge(ctx, userID, articleIDs[a.Slug]); err != nil {
					return nil, err
				}
				summary.Favorites++
			}
		}
	}

	return summary, nil
}

func (s *Seeder) ensureTags(ctx context.Context, accounts []Account) (map[string]uint, error) {
	seen := map[string]bool{}
	var names []string
	for _, acc := range accounts {
		for _, a := range acc.Articles {
			for _, name := range a.Tags {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}

	tags, err := s.tags.EnsureNames(ctx, names)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(tags))
	for _, tag := range tags {
		ids[tag.Name] = tag.ID
	}
	return ids, nil
}
