package service

import (
	"errors"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"github.com/scentvault/scentvault-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidAvatarURL = errors.New("avatar url must be an absolute URL")
)

type AuthService interface {
	// SyncUser IdP 토큰의 subject 로 로컬 사용자를 찾거나 생성
	SyncUser(claims *util.AuthClaims) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateAvatar(userID uint, avatarURL string) (*model.User, error)
	RemoveAvatar(userID uint) (*model.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	adminEmails map[string]bool
}

// NewAuthService adminEmails 에 포함된 이메일은 최초 동기화 시 관리자 권한으로 생성됨
func NewAuthService(userRepo repository.UserRepository, adminEmails []string) AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = true
		}
	}

	return &authService{
		userRepo:    userRepo,
		adminEmails: admins,
	}
}

func (s *authService) SyncUser(claims *util.AuthClaims) (*model.User, error) {
	role := model.RoleUser
	if !claims.IsAnonymous && s.adminEmails[strings.ToLower(claims.Email)] {
		role = model.RoleAdmin
	}

	candidate := &model.User{
		AuthID:      claims.Subject,
		Email:       claims.Email,
		Name:        claims.UserMetadata.DisplayName(),
		Role:        role,
		IsAnonymous: claims.IsAnonymous,
	}
	if claims.UserMetadata.AvatarURL != "" {
		avatar := claims.UserMetadata.AvatarURL
		candidate.AvatarURL = &avatar
	}

	user, err := s.userRepo.FindOrCreateByAuthID(candidate)
	if err != nil {
		logger.Error("Failed to sync user", err, map[string]interface{}{
			"auth_id": claims.Subject,
		})
		return nil, err
	}

	// 익명 세션이 정식 계정으로 전환된 경우
	if user.IsAnonymous && !claims.IsAnonymous {
		user.IsAnonymous = false
		if user.Email == "" {
			user.Email = claims.Email
		}
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		logger.Info("Anonymous user upgraded", map[string]interface{}{
			"user_id": user.ID,
		})
	}

	return user, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateAvatar(userID uint, avatarURL string) (*model.User, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if !util.IsAbsoluteURL(avatarURL) {
		return nil, ErrInvalidAvatarURL
	}
	return s.setAvatar(userID, &avatarURL)
}

func (s *authService) RemoveAvatar(userID uint) (*model.User, error) {
	return s.setAvatar(userID, nil)
}

func (s *authService) setAvatar(userID uint, avatarURL *string) (*model.User, error) {
	if err := s.userRepo.UpdateAvatar(userID, avatarURL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Info("User avatar updated", map[string]interface{}{
		"user_id": userID,
		"removed": avatarURL == nil,
	})
	return s.GetUserByID(userID)
}
