package repository

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByAuthID(authID string) (*model.User, error)
	FindOrCreateByAuthID(user *model.User) (*model.User, error)
	Update(user *model.User) error
	UpdateAvatar(id uint, avatarURL *string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"auth_id": user.AuthID,
		"email":   user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"auth_id": user.AuthID,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"auth_id": user.AuthID,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByAuthID(authID string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateByAuthID IdP subject 로 사용자를 찾고 없으면 생성
// 동시 요청에서도 auth_id unique 제약으로 한 행만 생성됨
func (r *userRepository) FindOrCreateByAuthID(user *model.User) (*model.User, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth_id"}},
		DoNothing: true,
	}).Create(user).Error
	if err != nil {
		logger.Error("Failed to upsert user in database", err, map[string]interface{}{
			"auth_id": user.AuthID,
		})
		return nil, err
	}

	return r.FindByAuthID(user.AuthID)
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdateAvatar(id uint, avatarURL *string) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("avatar_url", avatarURL)
	if result.Error != nil {
		logger.Error("Failed to update user avatar", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
