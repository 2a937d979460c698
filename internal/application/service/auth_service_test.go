package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	infra "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(infra.NewUserRepository(db), jwtManager), db
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	out, err := auth.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, user.ID, out.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{Email: "dup@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, &RegisterInput{Email: "dup@example.com", Password: "pass1234"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{Email: "ada@example.com", Password: "correct-pass"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	out, err := auth.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterInput{Email: "ada@example.com", Password: "old-pass-123"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "new-pass-456",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	require.NoError(t, auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "old-pass-123",
		NewPassword:     "new-pass-456",
	}))

	_, err = auth.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "old-pass-123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "new-pass-456"})
	assert.NoError(t, err)
}
