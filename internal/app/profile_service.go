package app

import (
	"context"

	"conduit-api/internal/model"
)

type ProfileService struct {
	users    UserStore
	follows  FollowStore
	activity ActivityPublisher
}

// Profile is a user as seen by another (possibly anonymous) user.
type Profile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

func NewProfileService(users UserStore, follows FollowStore, activity ActivityPublisher) *ProfileService {
	return &ProfileService{
		users:    users,
		follows:  follows,
		activity: activity,
	}
}

// GetProfile renders subjectUsername for viewerUsername. An empty viewer is
// anonymous and never follows anyone.
func (s *ProfileService) GetProfile(ctx context.Context, subjectUsername, viewerUsername string) (*Profile, error) {
	subject, err := s.users.GetByUsername(ctx, subjectUsername)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrNotFound
	}
	if viewerUsername == "" {
		return toProfile(subject, false), nil
	}

	viewer, err := s.users.GetByUsername(ctx, viewerUsername)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return toProfile(subject, false), nil
	}

	following, err := s.follows.Exists(ctx, viewer.ID, subject.ID)
	if err != nil {
		return nil, err
	}
	return toProfile(subject, following), nil
}

func (s *ProfileService) Follow(ctx context.Context, subjectUsername, actingUsername string) (*Profile, error) {
	if subjectUsername == actingUsername {
		return nil, newValidationError("follow", "cannot follow yourself")
	}

	follower, subject, err := s.resolvePair(ctx, subjectUsername, actingUsername)
	if err != nil {
		return nil, err
	}
	// Usernames may differ only in case and still resolve to the same row.
	if follower.ID == subject.ID {
		return nil, newValidationError("follow", "cannot follow yourself")
	}
	if err := s.follows.AddEdge(ctx, follower.ID, subject.ID); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activity, model.ActivityFollow, follower.ID, subject.ID)
	return toProfile(subject, true), nil
}

func (s *ProfileService) Unfollow(ctx context.Context, subjectUsername, actingUsername string) (*Profile, error) {
	if subjectUsername == actingUsername {
		return nil, newValidationError("follow", "cannot unfollow yourself")
	}

	follower, subject, err := s.resolvePair(ctx, subjectUsername, actingUsername)
	if err != nil {
		return nil, err
	}
	if follower.ID == subject.ID {
		return nil, newValidationError("follow", "cannot unfollow yourself")
	}
	if err := s.follows.RemoveEdge(ctx, follower.ID, subject.ID); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activity, model.ActivityUnfollow, follower.ID, subject.ID)
	return toProfile(subject, false), nil
}

// resolvePair loads the acting user and the subject; either missing is ErrNotFound.
func (s *ProfileService) resolvePair(ctx context.Context, subjectUsername, actingUsername string) (*model.User, *model.User, error) {
	follower, err := s.users.GetByUsername(ctx, actingUsername)
	if err != nil {
		return nil, nil, err
	}
	if follower == nil {
		return nil, nil, ErrNotFound
	}

	subject, err := s.users.GetByUsername(ctx, subjectUsername)
	if err != nil {
		return nil, nil, err
	}
	if subject == nil {
		return nil, nil, ErrNotFound
	}
	return follower, subject, nil
}

func toProfile(user *model.User, following bool) *Profile {
	return &Profile{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}
