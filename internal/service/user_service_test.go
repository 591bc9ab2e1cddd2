package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleet-registry/internal/auth"
	"fleet-registry/internal/model"
	"fleet-registry/internal/repository"
)

func newUserFixture(t *testing.T) (*UserService, *auth.Manager, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens := auth.NewManager("test-secret", time.Hour)
	svc := NewUserService(repository.NewUserRepository(db), tokens, 10)
	return svc, tokens, db
}

func TestUserCreateAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newUserFixture(t)

	user, err := svc.Create(ctx, CreateUserInput{
		Username: "dispatcher",
		Password: "secret123",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.Active)

	loggedIn, token, err := svc.Login(ctx, "dispatcher", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, string(model.RoleUser), claims.Role)
}

func TestUserLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(ctx, CreateUserInput{
		Username: "operator",
		Password: "secret123",
		Role:     model.RoleViewer,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "operator", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(ctx, CreateUserInput{Username: "ab", Password: "secret123", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateUserInput{Username: "valid", Password: "short", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateUserInput{Username: "valid", Password: "secret123", Role: model.Role("root")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserCreateRejectsTakenUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(ctx, CreateUserInput{Username: "taken", Password: "secret123", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserInput{Username: "taken", Password: "secret456", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserDeactivateIsSoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newUserFixture(t)

	user, err := svc.Create(ctx, CreateUserInput{Username: "leaver", Password: "secret123", Role: model.RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, user.ID.String()))

	// Gone from the service surface.
	_, err = svc.Get(ctx, user.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.Login(ctx, "leaver", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The row itself survives with active=false and the username stays
	// reserved.
	var stored model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
	assert.False(t, stored.Active)

	_, err = svc.Create(ctx, CreateUserInput{Username: "leaver", Password: "secret123", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserVerifyTokenRejectsStaleTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	user, err := svc.Create(ctx, CreateUserInput{Username: "rotator", Password: "secret123", Role: model.RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID.String(), "newsecret1"))

	// A token minted an hour before the password change is stale.
	stale := &auth.Claims{
		UserID: user.ID.String(),
		Role:   string(model.RoleUser),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	_, err = svc.VerifyToken(ctx, stale)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Fresh credentials still work after the rotation.
	_, _, err = svc.Login(ctx, "rotator", "newsecret1")
	assert.NoError(t, err)
}

func TestUserUpdateRefusesPasswordField(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	user, err := svc.Create(ctx, CreateUserInput{Username: "renamer", Password: "secret123", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.ID.String(), UpdateUserInput{Password: strPtr("sneaky-pass")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	role := model.RoleLicense
	updated, err := svc.Update(ctx, user.ID.String(), UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleLicense, updated.Role)
}
