package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"conduit-api/internal/model"
	"conduit-api/internal/pkg/optional"
	"conduit-api/internal/repository"
)

const defaultBcryptCost = 10

// Column limits of model.User.
const (
	MaxEmailLength    = 128
	MaxUsernameLength = 64
	MaxPasswordLength = 128
)

type AuthService struct {
	users      UserStore
	guard      *UniquenessGuard
	signer     TokenSigner
	activity   ActivityPublisher
	bcryptCost int
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	Bio      *string
	Image    *string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateUserInput applies only the fields that are Set.
type UpdateUserInput struct {
	Email    optional.Field[string]
	Username optional.Field[string]
	Password optional.Field[string]
	Bio      optional.Field[string]
	Image    optional.Field[string]
}

// UserView is the authenticated user as returned to its owner.
type UserView struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
	Token    string  `json:"token"`
}

// NewAuthService wires the auth logic. activity may be nil.
func NewAuthService(users UserStore, signer TokenSigner, activity ActivityPublisher, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = defaultBcryptCost
	}
	return &AuthService{
		users:      users,
		guard:      NewUniquenessGuard(users),
		signer:     signer,
		activity:   activity,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)

	verr := &ValidationError{}
	if email == "" {
		verr.Add("email", msgBlank)
	}
	if username == "" {
		verr.Add("username", msgBlank)
	}
	if password == "" {
		verr.Add("password", msgBlank)
	}
	checkLengths(verr, email, username, password)
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.guard.CheckOnCreate(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if input.Bio != nil && *input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Image != nil && *input.Image != "" {
		user.Image = input.Image
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, s.explainCreateConflict(ctx, email, username)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	s.record(ctx, model.ActivityRegister, user.ID, 0)
	return s.view(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*UserView, error) {
	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)

	verr := &ValidationError{}
	if email == "" {
		verr.Add("email", msgBlank)
	}
	if password == "" {
		verr.Add("password", msgBlank)
	}
	if !verr.Empty() {
		return nil, verr
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	return s.view(user)
}

// GetCurrentUser resolves the username carried by the caller's token.
func (s *AuthService) GetCurrentUser(ctx context.Context, username string) (*UserView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return s.view(user)
}

func (s *AuthService) UpdateUser(ctx context.Context, input UpdateUserInput, actingUsername string) (*UserView, error) {
	nextEmail := normalizeEmail(input.Email.Or(""))
	nextUsername := strings.TrimSpace(input.Username.Or(""))
	nextPassword := strings.TrimSpace(input.Password.Or(""))

	acting, err := s.users.GetByUsername(ctx, actingUsername)
	if err != nil {
		return nil, err
	}
	if acting == nil {
		return nil, ErrUnauthorized
	}

	verr := &ValidationError{}
	checkLengths(verr, nextEmail, nextUsername, nextPassword)
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.guard.CheckOnUpdate(ctx, actingUsername, nextEmail, nextUsername); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if nextEmail != "" {
		fields["email"] = nextEmail
	}
	if nextUsername != "" {
		fields["username"] = nextUsername
	}
	if nextPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(nextPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		fields["password_hash"] = string(hash)
	}
	if input.Image.Set {
		fields["image"] = input.Image.Value
	}
	if input.Bio.Set {
		fields["bio"] = input.Bio.Value
	}

	if err := s.users.UpdateFields(ctx, acting.ID, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, s.explainUpdateConflict(ctx, actingUsername, nextEmail, nextUsername)
		}
		return nil, err
	}

	updated, err := s.users.GetByID(ctx, acting.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUnauthorized
	}

	s.record(ctx, model.ActivityUpdate, updated.ID, 0)
	return s.view(updated)
}

// explainCreateConflict turns a unique-index violation that slipped past the
// guard into the same field errors the guard would have produced.
func (s *AuthService) explainCreateConflict(ctx context.Context, email, username string) error {
	if err := s.guard.CheckOnCreate(ctx, email, username); err != nil {
		return err
	}
	return newValidationError("email or username", msgTaken)
}

func (s *AuthService) explainUpdateConflict(ctx context.Context, actingUsername, email, username string) error {
	if err := s.guard.CheckOnUpdate(ctx, actingUsername, email, username); err != nil {
		return err
	}
	return newValidationError("email or username", msgTaken)
}

func (s *AuthService) view(user *model.User) (*UserView, error) {
	token, err := s.signer.Sign(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &UserView{
		Email:    user.Email,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
		Token:    token,
	}, nil
}

func (s *AuthService) record(ctx context.Context, kind string, actorID, subjectID uint) {
	recordActivity(ctx, s.activity, kind, actorID, subjectID)
}

func recordActivity(ctx context.Context, publisher ActivityPublisher, kind string, actorID, subjectID uint) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, model.Activity{Kind: kind, ActorID: actorID, SubjectID: subjectID})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":     kind,
			"actor_id": actorID,
		}).Warn("publish activity failed")
	}
}

// checkLengths reports values longer than their columns allow. Lengths are
// counted in characters, after normalization.
func checkLengths(verr *ValidationError, email, username, password string) {
	if utf8.RuneCountInString(email) > MaxEmailLength {
		verr.Add("email", msgTooLong(MaxEmailLength))
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		verr.Add("username", msgTooLong(MaxUsernameLength))
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		verr.Add("password", msgTooLong(MaxPasswordLength))
	}
}

func invalidCredentials() error {
	return newValidationError("email or password", msgInvalid)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
