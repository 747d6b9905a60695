package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/jwt"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/testutil"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, func()) {
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24
	service := NewAuthService(repository.NewUserRepository(db), nil, cfg)
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, db, cleanup
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "墨客",
		Email:    "moke@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	loginResp, err := service.Login(&dto.LoginRequest{
		Email:    "moke@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, resp.UserID, loginResp.User.ID)
	assert.Equal(t, "墨客", loginResp.User.Username)

	// Token 可解析且指向正确的用户
	claims, err := jwt.ParseToken(loginResp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{
		Username: "user1", Email: "dup@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "user2", Email: "dup@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{
		Username: "samename", Email: "a@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "samename", Email: "b@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{
		Username: "user1", Email: "u@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{Email: "u@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "writer", Email: "w@example.com", Password: "password123",
	})
	require.NoError(t, err)

	bio := "写作是孤独的修行"
	avatar := "https://cdn.example.com/avatar.png"
	info, err := service.UpdateProfile(resp.UserID, &dto.UpdateProfileRequest{
		Bio: &bio, AvatarURL: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, bio, info.Bio)
	assert.Equal(t, avatar, info.AvatarURL)

	// 省略的字段保持不变
	newBio := "改了签名"
	info, err = service.UpdateProfile(resp.UserID, &dto.UpdateProfileRequest{Bio: &newBio})
	require.NoError(t, err)
	assert.Equal(t, newBio, info.Bio)
	assert.Equal(t, avatar, info.AvatarURL)
}

func TestAuthService_GetProfile_NotFound(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.GetProfile(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
