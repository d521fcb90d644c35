package model

import (
	"time"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

// User 외부 인증 제공자(IdP) 계정과 연결된 로컬 사용자
type User struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                  // 사용자 ID
	AuthID      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`        // IdP subject (sub)
	Email       string    `gorm:"index" json:"email"`                                    // 이메일
	Name        string    `json:"name"`                                                  // 표시 이름
	AvatarURL   *string   `json:"avatar_url"`                                            // 프로필 이미지 URL
	Role        UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`           // 권한
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`                     // 익명 로그인 여부
	CreatedAt   time.Time `json:"created_at"`                                            // 생성 시각
	UpdatedAt   time.Time `json:"updated_at"`                                            // 수정 시각
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 관리자 여부
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
