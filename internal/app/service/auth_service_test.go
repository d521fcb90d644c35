package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (*testDeps, AuthService) {
	d := setupServiceTest(t)
	return d, NewAuthService(d.users, []string{" Admin@Example.com "})
}

func claimsFor(subject, email string, anonymous bool) *util.AuthClaims {
	return &util.AuthClaims{
		Email:        email,
		IsAnonymous:  anonymous,
		UserMetadata: util.UserMetadata{FullName: "Test User", AvatarURL: "https://cdn.example.com/a.png"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

func TestAuthService_SyncUser(t *testing.T) {
	_, svc := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		claims   *util.AuthClaims
		wantRole model.UserRole
	}{
		{"Regular user", claimsFor("sub-1", "user@example.com", false), model.RoleUser},
		{"Configured admin", claimsFor("sub-2", "admin@example.com", false), model.RoleAdmin},
		{"Anonymous session", claimsFor("sub-3", "", true), model.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.SyncUser(tt.claims)
			require.NoError(t, err)
			assert.Equal(t, tt.claims.Subject, user.AuthID)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "Test User", user.Name)
			assert.Equal(t, tt.claims.IsAnonymous, user.IsAnonymous)
			require.NotNil(t, user.AvatarURL)
		})
	}
}

func TestAuthService_SyncUser_Idempotent(t *testing.T) {
	d, svc := setupAuthServiceTest(t)

	first, err := svc.SyncUser(claimsFor("sub-1", "user@example.com", false))
	require.NoError(t, err)
	second, err := svc.SyncUser(claimsFor("sub-1", "user@example.com", false))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, d.db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_SyncUser_UpgradesAnonymous(t *testing.T) {
	_, svc := setupAuthServiceTest(t)

	guest, err := svc.SyncUser(claimsFor("sub-9", "", true))
	require.NoError(t, err)
	require.True(t, guest.IsAnonymous)

	upgraded, err := svc.SyncUser(claimsFor("sub-9", "linked@example.com", false))
	require.NoError(t, err)
	assert.Equal(t, guest.ID, upgraded.ID)
	assert.False(t, upgraded.IsAnonymous)
	assert.Equal(t, "linked@example.com", upgraded.Email)
}

func TestAuthService_Avatar(t *testing.T) {
	d, svc := setupAuthServiceTest(t)
	user := createTestUser(t, d, "jane", false)

	updated, err := svc.UpdateAvatar(user.ID, "https://cdn.example.com/avatars/jane.png")
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/avatars/jane.png", *updated.AvatarURL)

	_, err = svc.UpdateAvatar(user.ID, "avatars/jane.png")
	assert.ErrorIs(t, err, ErrInvalidAvatarURL)

	removed, err := svc.RemoveAvatar(user.ID)
	require.NoError(t, err)
	assert.Nil(t, removed.AvatarURL)

	_, err = svc.RemoveAvatar(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
