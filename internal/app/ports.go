package app

import (
	"context"

	"conduit-api/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	FindConflict(ctx context.Context, excludeUsername, email, username string) (*model.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type FollowStore interface {
	AddEdge(ctx context.Context, followerID, followingID uint) error
	RemoveEdge(ctx context.Context, followerID, followingID uint) error
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
}

type TagStore interface {
	ListPopular(ctx context.Context, username string, limit int) ([]string, error)
}

type TokenSigner interface {
	Sign(userID uint, username, email string) (string, error)
}

type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

type TagCache interface {
	Get(ctx context.Context, username string, limit int) ([]string, bool, error)
	Set(ctx context.Context, username string, limit int, tags []string) error
}
