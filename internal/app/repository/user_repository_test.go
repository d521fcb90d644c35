package repository

import (
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				AuthID: "sub-1",
				Email:  "test@example.com",
				Name:   "Test User",
				Role:   model.RoleUser,
			},
			wantErr: false,
		},
		{
			name: "Duplicate auth subject",
			user: &model.User{
				AuthID: "sub-1",
				Email:  "other@example.com",
				Name:   "Another User",
				Role:   model.RoleUser,
			},
			wantErr: true,
		},
		{
			name: "Anonymous session without email",
			user: &model.User{
				AuthID:      "sub-anon",
				Role:        model.RoleUser,
				IsAnonymous: true,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindOrCreateByAuthID(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	first, err := repo.FindOrCreateByAuthID(&model.User{AuthID: "sub-1", Email: "first@example.com", Role: model.RoleUser})
	require.NoError(t, err)

	// existing row wins; the new values are ignored
	second, err := repo.FindOrCreateByAuthID(&model.User{AuthID: "sub-1", Email: "second@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first@example.com", second.Email)
	assert.Equal(t, model.RoleUser, second.Role)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_Find(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{AuthID: "sub-1", Email: "test@example.com", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", found.AuthID)

	found, err = repo.FindByAuthID("sub-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByAuthID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateAvatar(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{AuthID: "sub-1", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	avatar := "https://cdn.example.com/avatars/1.png"
	require.NoError(t, repo.UpdateAvatar(user.ID, &avatar))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AvatarURL)
	assert.Equal(t, avatar, *found.AvatarURL)

	require.NoError(t, repo.UpdateAvatar(user.ID, nil))
	found, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, found.AvatarURL)

	assert.ErrorIs(t, repo.UpdateAvatar(9999, &avatar), gorm.ErrRecordNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{AuthID: "sub-1", Role: model.RoleUser, IsAnonymous: true}
	require.NoError(t, repo.Create(user))

	user.Email = "linked@example.com"
	user.IsAnonymous = false
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "linked@example.com", found.Email)
	assert.False(t, found.IsAnonymous)
}
