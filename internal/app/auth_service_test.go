package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"conduit-api/internal/app"
	"conduit-api/internal/app/apptest"
	"conduit-api/internal/model"
	"conduit-api/internal/pkg/optional"
	"conduit-api/internal/repository"
)

func newAuthService(t *testing.T) (*app.AuthService, *apptest.MemStore) {
	t.Helper()
	store := apptest.NewMemStore()
	return app.NewAuthService(store, apptest.StaticSigner{}, nil, bcrypt.MinCost), store
}

func register(t *testing.T, svc *app.AuthService, email, username, password string) *app.UserView {
	t.Helper()
	user, err := svc.Register(context.Background(), app.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func requireFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	verr, ok := app.AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered := register(t, svc, "  Jake@Jake.JAKE ", " jake ", "jakejake")
	assert.Equal(t, "jake@jake.jake", registered.Email)
	assert.Equal(t, "jake", registered.Username)
	assert.Nil(t, registered.Bio)
	assert.Nil(t, registered.Image)
	assert.Equal(t, "token:jake", registered.Token)

	loggedIn, err := svc.Login(ctx, app.LoginInput{Email: "JAKE@jake.jake", Password: "jakejake"})
	require.NoError(t, err)
	assert.Equal(t, registered.Username, loggedIn.Username)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestAuthService_Register_StoresHashAndOptionalFields(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	bio := "I work at statefarm"
	empty := ""

	_, err := svc.Register(ctx, app.RegisterInput{
		Email:    "jake@jake.jake",
		Username: "jake",
		Password: "jakejake",
		Bio:      &bio,
		Image:    &empty,
	})
	require.NoError(t, err)

	stored, err := store.GetByUsername(ctx, "jake")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "jakejake", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("jakejake")))
	require.NotNil(t, stored.Bio)
	assert.Equal(t, bio, *stored.Bio)
	assert.Nil(t, stored.Image, "empty image is not persisted")
}

func TestAuthService_Register_BlankFields(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), app.RegisterInput{Email: " ", Username: "", Password: "   "})

	fields := requireFields(t, err)
	assert.Equal(t, []string{"can't be blank"}, fields["email"])
	assert.Equal(t, []string{"can't be blank"}, fields["username"])
	assert.Equal(t, []string{"can't be blank"}, fields["password"])
}

func TestAuthService_Register_Collisions(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		username string
		keys     []string
	}{
		{name: "email", email: "jake@jake.jake", username: "other", keys: []string{"email"}},
		{name: "username", email: "other@jake.jake", username: "jake", keys: []string{"username"}},
		{name: "both", email: "JAKE@jake.jake", username: "jake", keys: []string{"email", "username"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newAuthService(t)
			register(t, svc, "jake@jake.jake", "jake", "jakejake")

			_, err := svc.Register(context.Background(), app.RegisterInput{
				Email:    tc.email,
				Username: tc.username,
				Password: "password",
			})

			fields := requireFields(t, err)
			assert.Len(t, fields, len(tc.keys))
			for _, key := range tc.keys {
				assert.Equal(t, []string{"has already been taken"}, fields[key])
			}
		})
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	_, wrongPassword := svc.Login(ctx, app.LoginInput{Email: "jake@jake.jake", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, app.LoginInput{Email: "ghost@jake.jake", Password: "jakejake"})

	wrongFields := requireFields(t, wrongPassword)
	unknownFields := requireFields(t, unknownEmail)
	assert.Equal(t, map[string][]string{"email or password": {"is invalid"}}, wrongFields)
	assert.Equal(t, wrongFields, unknownFields)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Login_BlankFields(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), app.LoginInput{Email: "jake@jake.jake"})

	fields := requireFields(t, err)
	assert.Equal(t, map[string][]string{"password": {"can't be blank"}}, fields)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	user, err := svc.GetCurrentUser(ctx, "jake")
	require.NoError(t, err)
	assert.Equal(t, "jake@jake.jake", user.Email)
	assert.Equal(t, "token:jake", user.Token)

	_, err = svc.GetCurrentUser(ctx, "ghost")
	assert.True(t, errors.Is(err, app.ErrUnauthorized))
	assert.False(t, errors.Is(err, app.ErrNotFound))
}

func TestAuthService_UpdateUser_BioOnly(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")
	before, _ := store.GetByUsername(ctx, "jake")

	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{Bio: optional.Of("new bio")}, "jake")
	require.NoError(t, err)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "new bio", *updated.Bio)
	assert.Equal(t, "jake@jake.jake", updated.Email)
	assert.Equal(t, "jake", updated.Username)

	after, _ := store.GetByUsername(ctx, "jake")
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, before.Email, after.Email)
}

func TestAuthService_UpdateUser_ExplicitClears(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	bio := "old bio"
	image := "https://example.com/jake.png"
	_, err := svc.Register(ctx, app.RegisterInput{
		Email: "jake@jake.jake", Username: "jake", Password: "jakejake", Bio: &bio, Image: &image,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Bio:   optional.Of(""),
		Image: optional.Null[string](),
	}, "jake")
	require.NoError(t, err)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "", *updated.Bio)
	assert.Nil(t, updated.Image)
}

func TestAuthService_UpdateUser_EmptyCredentialsIgnored(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Email:    optional.Of("  "),
		Username: optional.Of(""),
		Password: optional.Of(" "),
	}, "jake")
	require.NoError(t, err)
	assert.Equal(t, "jake@jake.jake", updated.Email)
	assert.Equal(t, "jake", updated.Username)

	_, err = svc.Login(ctx, app.LoginInput{Email: "jake@jake.jake", Password: "jakejake"})
	assert.NoError(t, err)
}

func TestAuthService_UpdateUser_PasswordAndUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Username: optional.Of(" jacob "),
		Password: optional.Of("newpassword"),
	}, "jake")
	require.NoError(t, err)
	assert.Equal(t, "jacob", updated.Username)
	assert.Equal(t, "token:jacob", updated.Token)

	_, err = svc.Login(ctx, app.LoginInput{Email: "jake@jake.jake", Password: "newpassword"})
	assert.NoError(t, err)

	_, err = svc.GetCurrentUser(ctx, "jake")
	assert.True(t, errors.Is(err, app.ErrUnauthorized), "old session no longer resolves")
}

func TestAuthService_UpdateUser_Collisions(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")
	register(t, svc, "anna@jake.jake", "anna", "annaanna")

	_, err := svc.UpdateUser(ctx, app.UpdateUserInput{Email: optional.Of("ANNA@jake.jake")}, "jake")
	assert.Equal(t, map[string][]string{"email": {"has already been taken"}}, requireFields(t, err))

	_, err = svc.UpdateUser(ctx, app.UpdateUserInput{
		Email:    optional.Of("fresh@jake.jake"),
		Username: optional.Of("anna"),
	}, "jake")
	assert.Equal(t, map[string][]string{"username": {"has already been taken"}}, requireFields(t, err))

	_, err = svc.UpdateUser(ctx, app.UpdateUserInput{
		Email:    optional.Of("anna@jake.jake"),
		Username: optional.Of("anna"),
	}, "jake")
	assert.Len(t, requireFields(t, err), 2)
}

func TestAuthService_UpdateUser_OwnValuesAreNotConflicts(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Email:    optional.Of("jake@jake.jake"),
		Username: optional.Of("jake"),
	}, "jake")
	require.NoError(t, err)
	assert.Equal(t, "jake", updated.Username)
}

func TestAuthService_UpdateUser_LengthLimits(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "jake@jake.jake", "jake", "jakejake")

	_, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Username: optional.Of(strings.Repeat("u", app.MaxUsernameLength+1)),
		Password: optional.Of(strings.Repeat("p", app.MaxPasswordLength+1)),
	}, "jake")
	assert.Equal(t, map[string][]string{
		"username": {"is too long (maximum is 64 characters)"},
		"password": {"is too long (maximum is 128 characters)"},
	}, requireFields(t, err))

	_, err = svc.UpdateUser(ctx, app.UpdateUserInput{
		Email: optional.Of(strings.Repeat("e", app.MaxEmailLength) + "@x.io"),
	}, "jake")
	assert.Equal(t, map[string][]string{"email": {"is too long (maximum is 128 characters)"}}, requireFields(t, err))

	// Surrounding whitespace is trimmed before counting.
	updated, err := svc.UpdateUser(ctx, app.UpdateUserInput{
		Username: optional.Of("  " + strings.Repeat("u", app.MaxUsernameLength) + "  "),
	}, "jake")
	require.NoError(t, err)
	assert.Len(t, updated.Username, app.MaxUsernameLength)

	stored, err := store.GetByEmail(ctx, "jake@jake.jake")
	require.NoError(t, err)
	assert.Equal(t, updated.Username, stored.Username)
}

func TestAuthService_UpdateUser_UnknownActingUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.UpdateUser(context.Background(), app.UpdateUserInput{Bio: optional.Of("x")}, "ghost")
	assert.True(t, errors.Is(err, app.ErrUnauthorized))
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) FindConflict(ctx context.Context, excludeUsername, email, username string) (*model.User, error) {
	args := m.Called(ctx, excludeUsername, email, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, activity model.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func TestAuthService_Register_DuplicateKeyRaceBecomesValidationError(t *testing.T) {
	store := new(mockUserStore)
	svc := app.NewAuthService(store, apptest.StaticSigner{}, nil, bcrypt.MinCost)
	ctx := context.Background()
	winner := &model.User{ID: 9, Email: "jake@jake.jake", Username: "jake-the-first"}

	// The pre-check sees nothing, the insert loses the race, the re-check explains it.
	store.On("GetByEmail", ctx, "jake@jake.jake").Return(nil, nil).Once()
	store.On("GetByUsername", ctx, "jake").Return(nil, nil).Once()
	store.On("Create", ctx, mock.AnythingOfType("*model.User")).
		Return(fmt.Errorf("create user failed: %w", repository.ErrDuplicateEntry)).Once()
	store.On("GetByEmail", ctx, "jake@jake.jake").Return(winner, nil).Once()
	store.On("GetByUsername", ctx, "jake").Return(nil, nil).Once()

	_, err := svc.Register(ctx, app.RegisterInput{Email: "jake@jake.jake", Username: "jake", Password: "jakejake"})

	assert.Equal(t, map[string][]string{"email": {"has already been taken"}}, requireFields(t, err))
	store.AssertExpectations(t)
}

func TestAuthService_Register_StorageErrorPropagates(t *testing.T) {
	store := new(mockUserStore)
	svc := app.NewAuthService(store, apptest.StaticSigner{}, nil, bcrypt.MinCost)
	ctx := context.Background()
	boom := errors.New("connection reset")

	store.On("GetByEmail", ctx, "jake@jake.jake").Return(nil, boom).Once()

	_, err := svc.Register(ctx, app.RegisterInput{Email: "jake@jake.jake", Username: "jake", Password: "jakejake"})

	assert.True(t, errors.Is(err, boom))
	_, isValidation := app.AsValidationError(err)
	assert.False(t, isValidation)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_PublishesActivity(t *testing.T) {
	store := apptest.NewMemStore()
	publisher := new(mockPublisher)
	svc := app.NewAuthService(store, apptest.StaticSigner{}, publisher, bcrypt.MinCost)
	ctx := context.Background()

	publisher.On("Publish", ctx, mock.MatchedBy(func(a model.Activity) bool {
		return a.Kind == model.ActivityRegister && a.ActorID == 1
	})).Return(errors.New("broker down")).Once()

	user, err := svc.Register(ctx, app.RegisterInput{Email: "jake@jake.jake", Username: "jake", Password: "jakejake"})

	require.NoError(t, err, "publish failures do not fail the request")
	assert.Equal(t, "jake", user.Username)
	publisher.AssertExpectations(t)
}
