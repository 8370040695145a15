package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conduit-api/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("create user failed: %w", ErrDuplicateEntry)
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// FindConflict returns the first user other than excludeUsername whose email
// equals email or whose username equals username. Empty values are not matched.
func (r *UserRepository) FindConflict(ctx context.Context, excludeUsername, email, username string) (*model.User, error) {
	q := r.db.WithContext(ctx).Not("username = ?", excludeUsername)
	switch {
	case email != "" && username != "":
		q = q.Where("email = ? OR username = ?", email, username)
	case email != "":
		q = q.Where("email = ?", email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		return nil, nil
	}

	var user model.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query conflicting user failed: %w", err)
	}
	return &user, nil
}

// UpdateFields writes exactly the given columns. A nil value stores NULL.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("update user failed: %w", ErrDuplicateEntry)
		}
		return fmt.Errorf("update user failed: %w", err)
	}
	return nil
}

// UpsertByEmail creates the user or refreshes username, password, bio and
// image of the row holding the same email. user.ID is filled on return.
func (r *UserRepository) UpsertByEmail(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "password_hash", "bio", "image", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("upsert user failed: %w", err)
	}

	stored, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("upsert user failed: %s vanished", user.Email)
	}
	user.ID = stored.ID
	return nil
}
